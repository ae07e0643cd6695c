package oneclick

// LoginErrorCode is the outcome code delivered with every login Result.  The
// numeric values of the first six codes match the raw values used by the
// mobile SDK.
//
//go:generate stringer -type=LoginErrorCode -trimprefix=Code
type LoginErrorCode int

const (
	CodeSuccess    LoginErrorCode = iota // login succeeded
	CodeKeyError                         // invalid ak/sk/token
	CodeDataError                        // backend response malformed or unparseable
	CodeNetError                         // connectivity failure or timeout
	CodePhoneError                       // invalid phone number format
	CodeUnknown                          // catch-all
	// CodeUserCancelled is reported when the user dismisses the login screen
	// without completing it.
	CodeUserCancelled
)
