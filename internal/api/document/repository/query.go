package documentRepository

const (
	queryCreateDocument = `
		INSERT INTO documents (
			id,
			original_filename,
			file_url,
			filesize,
			mimetype,
			raw_text,
			extracted_data,
			ocr_confidence,
			ocr_engine,
			verification_results,
			status,
			processing_time_ms,
			created_at,
			updated_at
		) VALUES (
			:id,
			:original_filename,
			:file_url,
			:filesize,
			:mimetype,
			:raw_text,
			:extracted_data,
			:ocr_confidence,
			:ocr_engine,
			:verification_results,
			:status,
			:processing_time_ms,
			:created_at,
			:updated_at
		)
	`

	documentColumns = `
			id,
			original_filename,
			file_url,
			filesize,
			mimetype,
			raw_text,
			extracted_data,
			ocr_confidence,
			ocr_engine,
			verification_results,
			status,
			processing_time_ms,
			created_at,
			updated_at
	`

	queryGetDocumentByID = `
		SELECT` + documentColumns + `
		FROM documents
		WHERE id = :id
	`

	queryListDocuments = `
		SELECT` + documentColumns + `
		FROM documents
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountDocuments = `
		SELECT COUNT(*) FROM documents
	`

	queryUpdateVerification = `
		UPDATE documents
		SET
			verification_results = :verification_results,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryDeleteDocument = `
		DELETE FROM documents
		WHERE id = :id
	`
)
