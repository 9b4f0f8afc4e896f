package entity

type AdminLoginData struct {
	ID       string
	Username string
	Email    string
}
