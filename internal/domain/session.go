package domain

// Session is the single run of phyboot against one device. It exclusively
// owns its transport from open to close.
type Session struct {
	Device    string
	Baud      int
	ImagePath string
	State     State

	// Transport is set between open and close only.
	Transport LineTransport
}
