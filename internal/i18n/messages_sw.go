package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.Swahili

	message.SetString(lang, MsgWelcome, "Karibu kwenye API ya eMali Estates!")

	message.SetString(lang, MsgSignedUp, "Mtumiaji amesajiliwa kikamilifu")
	message.SetString(lang, MsgLoggedIn, "Umeingia kikamilifu")
	message.SetString(lang, MsgOTPVerified, "Akaunti imethibitishwa")
	message.SetString(lang, MsgOTPSent, "OTP mpya imetumwa kwa barua pepe yako")
	message.SetString(lang, MsgLoggedOut, "Umetoka kikamilifu")

	message.SetString(lang, MsgInvalidCreds, "Taarifa za kuingia si sahihi")
	message.SetString(lang, MsgInvalidOTP, "OTP si sahihi au imeisha muda")
	message.SetString(lang, MsgOTPDispatch, "Imeshindikana kutuma OTP. Tafadhali jaribu tena baadaye.")
	message.SetString(lang, MsgUserNotFound, "Mtumiaji hajapatikana")

	message.SetString(lang, MsgOTPMailSubject, "Thibitisha Barua Pepe Yako")
	message.SetString(lang, MsgOTPMailGreeting, "Habari %s,")
	message.SetString(lang, MsgOTPMailCode, "OTP yako ni: %s")
	message.SetString(lang, MsgOTPMailValidity, "OTP hii ni halali kwa dakika %d zijazo.")
	message.SetString(lang, MsgOTPSMS, "Habari %s, nambari yako ya uthibitisho ni %s. Itaisha baada ya dakika %d.")
}
