package mail

type WelcomeEmailData struct {
	Name        string
	CompanyName string
	PortalLink  string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
