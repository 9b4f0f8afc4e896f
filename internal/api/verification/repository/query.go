package verificationRepository

const (
	queryCreateRegistration = `
		INSERT INTO registrations (
			id,
			document_id,
			name,
			email,
			phone,
			submitted_data,
			verification_results,
			summary,
			verification_status,
			ip_address,
			user_agent,
			processing_time_ms,
			created_at,
			updated_at
		) VALUES (
			:id,
			:document_id,
			:name,
			:email,
			:phone,
			:submitted_data,
			:verification_results,
			:summary,
			:verification_status,
			:ip_address,
			:user_agent,
			:processing_time_ms,
			:created_at,
			:updated_at
		)
	`

	registrationColumns = `
			id,
			document_id,
			name,
			email,
			phone,
			submitted_data,
			verification_results,
			summary,
			verification_status,
			ip_address,
			user_agent,
			processing_time_ms,
			created_at,
			updated_at
	`

	queryGetRegistrationByID = `
		SELECT` + registrationColumns + `
		FROM registrations
		WHERE id = :id
	`

	queryListRegistrations = `
		SELECT` + registrationColumns + `
		FROM registrations
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountRegistrations = `
		SELECT COUNT(*) FROM registrations
	`

	// %s is replaced by an OR of "<column> ILIKE :term" predicates built
	// from SearchColumn constants only.
	querySearchRegistrations = `
		SELECT` + registrationColumns + `
		FROM registrations
		WHERE %s
		ORDER BY created_at DESC
		LIMIT :limit
	`
)
