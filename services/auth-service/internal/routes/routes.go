package routes

const (
	Health = "/health"
	Signup = "/signup"
	Login  = "/login"
)
