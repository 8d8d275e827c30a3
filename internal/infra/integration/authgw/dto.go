package authgw

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     signUpUserData `json:"data"`
}

type signUpUserData struct {
	FullName string `json:"full_name"`
}

type recoverRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type errorResponse struct {
	Message string `json:"msg"`
	Error   string `json:"error_description"`
}
