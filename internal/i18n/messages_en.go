package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, MsgWelcome, "Welcome to the eMali Estates API!")

	// Auth
	message.SetString(lang, MsgSignedUp, "User successfully registered")
	message.SetString(lang, MsgLoggedIn, "User logged in successfully")
	message.SetString(lang, MsgOTPVerified, "Account verified successfully")
	message.SetString(lang, MsgOTPSent, "A new OTP has been sent to your email")
	message.SetString(lang, MsgLoggedOut, "Logged out successfully")

	// Users
	message.SetString(lang, MsgUsersListed, "Users retrieved successfully")
	message.SetString(lang, MsgUserFound, "User retrieved successfully")
	message.SetString(lang, MsgUserDeleted, "User deleted successfully")
	message.SetString(lang, MsgUserUpdated, "User updated successfully")

	// Errors
	message.SetString(lang, MsgValidationFailed, "Invalid request body")
	message.SetString(lang, MsgInvalidJSON, "Malformed JSON body")
	message.SetString(lang, MsgInvalidCreds, "Invalid credentials")
	message.SetString(lang, MsgInvalidOTP, "Invalid or expired OTP")
	message.SetString(lang, MsgOTPDispatch, "Failed to send OTP. Please try again later.")
	message.SetString(lang, MsgConflict, "Email, phone or username already in use")
	message.SetString(lang, MsgUserNotFound, "User not found")
	message.SetString(lang, MsgUnauthorized, "Missing or invalid access token")
	message.SetString(lang, MsgForbidden, "You are not allowed to perform this action")
	message.SetString(lang, MsgRateLimited, "Too many requests, please try again later")
	message.SetString(lang, MsgInternal, "Something went wrong")
	message.SetString(lang, MsgNotFound, "Resource not found")

	// OTP delivery
	message.SetString(lang, MsgOTPMailSubject, "Verify Your Email Address")
	message.SetString(lang, MsgOTPMailHeading, "One-Time Password (OTP)")
	message.SetString(lang, MsgOTPMailGreeting, "Hello %s,")
	message.SetString(lang, MsgOTPMailIntro, "Thank you for registering. Please use the following OTP to verify your account:")
	message.SetString(lang, MsgOTPMailCode, "Your OTP is: %s")
	message.SetString(lang, MsgOTPMailValidity, "This OTP is valid for the next %d minutes.")
	message.SetString(lang, MsgOTPMailIgnore, "If you did not request this, please ignore this email.")
	message.SetString(lang, MsgOTPMailNoReply, "This is an automated message. Do not reply.")
	message.SetString(lang, MsgOTPSMS, "Hello %s, your verification code is %s. It expires in %d minutes.")
}
