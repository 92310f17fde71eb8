package i18n

// Message keys used in response envelopes.
const (
	MsgWelcome          = "app.welcome"
	MsgSignedUp         = "auth.signed_up"
	MsgLoggedIn         = "auth.logged_in"
	MsgOTPVerified      = "auth.otp_verified"
	MsgOTPSent          = "auth.otp_sent"
	MsgLoggedOut        = "auth.logged_out"
	MsgUsersListed      = "users.listed"
	MsgUserFound        = "users.found"
	MsgUserDeleted      = "users.deleted"
	MsgUserUpdated      = "users.updated"
	MsgValidationFailed = "error.validation"
	MsgInvalidJSON      = "error.invalid_json"
	MsgInvalidCreds     = "error.invalid_credentials"
	MsgInvalidOTP       = "error.invalid_otp"
	MsgOTPDispatch      = "error.otp_dispatch"
	MsgConflict         = "error.conflict"
	MsgUserNotFound     = "error.user_not_found"
	MsgUnauthorized     = "error.unauthorized"
	MsgForbidden        = "error.forbidden"
	MsgRateLimited      = "error.rate_limited"
	MsgInternal         = "error.internal"
	MsgNotFound         = "error.not_found"
)

// OTP delivery copy, rendered in the recipient's language.
const (
	MsgOTPMailSubject  = "otp.mail.subject"
	MsgOTPMailHeading  = "otp.mail.heading"
	MsgOTPMailGreeting = "otp.mail.greeting"
	MsgOTPMailIntro    = "otp.mail.intro"
	MsgOTPMailCode     = "otp.mail.code"
	MsgOTPMailValidity = "otp.mail.validity"
	MsgOTPMailIgnore   = "otp.mail.ignore"
	MsgOTPMailNoReply  = "otp.mail.no_reply"
	MsgOTPSMS          = "otp.sms"
)
