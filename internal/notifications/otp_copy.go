package notifications

import (
	"time"

	"github.com/emali/estates-api/internal/i18n"
	"golang.org/x/text/language"
)

// otpCopy is the recipient-facing text of an OTP message in one language.
type otpCopy struct {
	Subject  string
	Heading  string
	Greeting string
	Intro    string
	CodeLine string
	Validity string
	Ignore   string
	NoReply  string
	Code     string
}

// recipientTag maps the stored language code (EN, FR, SW, RW) to a catalog
// tag. Unknown or empty codes are served in English.
func recipientTag(code string) language.Tag {
	if tag, ok := i18n.ParseTag(code); ok {
		return tag
	}
	return language.English
}

func otpMinutes(ttl time.Duration) int {
	if m := int(ttl.Minutes()); m > 0 {
		return m
	}
	return 5
}

func localizeOTP(in SendOTPInput) otpCopy {
	tag := recipientTag(in.Language)
	msg := func(key string, args ...any) string {
		return i18n.Message(tag, language.English, key, args...)
	}

	return otpCopy{
		Subject:  msg(i18n.MsgOTPMailSubject),
		Heading:  msg(i18n.MsgOTPMailHeading),
		Greeting: msg(i18n.MsgOTPMailGreeting, in.Name),
		Intro:    msg(i18n.MsgOTPMailIntro),
		CodeLine: msg(i18n.MsgOTPMailCode, in.Code),
		Validity: msg(i18n.MsgOTPMailValidity, otpMinutes(in.TTL)),
		Ignore:   msg(i18n.MsgOTPMailIgnore),
		NoReply:  msg(i18n.MsgOTPMailNoReply),
		Code:     in.Code,
	}
}

func otpSMSText(in SendOTPInput) string {
	return i18n.Message(recipientTag(in.Language), language.English, i18n.MsgOTPSMS, in.Name, in.Code, otpMinutes(in.TTL))
}
