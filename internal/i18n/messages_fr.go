package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.French

	message.SetString(lang, MsgWelcome, "Bienvenue sur l'API eMali Estates !")

	message.SetString(lang, MsgSignedUp, "Utilisateur inscrit avec succès")
	message.SetString(lang, MsgLoggedIn, "Connexion réussie")
	message.SetString(lang, MsgOTPVerified, "Compte vérifié avec succès")
	message.SetString(lang, MsgOTPSent, "Un nouveau code OTP a été envoyé à votre adresse e-mail")
	message.SetString(lang, MsgLoggedOut, "Déconnexion réussie")

	message.SetString(lang, MsgUsersListed, "Utilisateurs récupérés avec succès")
	message.SetString(lang, MsgUserFound, "Utilisateur récupéré avec succès")
	message.SetString(lang, MsgUserDeleted, "Utilisateur supprimé avec succès")
	message.SetString(lang, MsgUserUpdated, "Utilisateur mis à jour avec succès")

	message.SetString(lang, MsgValidationFailed, "Corps de requête invalide")
	message.SetString(lang, MsgInvalidJSON, "JSON mal formé")
	message.SetString(lang, MsgInvalidCreds, "Identifiants invalides")
	message.SetString(lang, MsgInvalidOTP, "Code OTP invalide ou expiré")
	message.SetString(lang, MsgOTPDispatch, "Échec de l'envoi du code OTP. Veuillez réessayer plus tard.")
	message.SetString(lang, MsgConflict, "E-mail, téléphone ou nom d'utilisateur déjà utilisé")
	message.SetString(lang, MsgUserNotFound, "Utilisateur introuvable")
	message.SetString(lang, MsgUnauthorized, "Jeton d'accès manquant ou invalide")
	message.SetString(lang, MsgForbidden, "Vous n'êtes pas autorisé à effectuer cette action")
	message.SetString(lang, MsgRateLimited, "Trop de requêtes, veuillez réessayer plus tard")
	message.SetString(lang, MsgInternal, "Une erreur est survenue")
	message.SetString(lang, MsgNotFound, "Ressource introuvable")

	message.SetString(lang, MsgOTPMailSubject, "Vérifiez votre adresse e-mail")
	message.SetString(lang, MsgOTPMailHeading, "Code à usage unique (OTP)")
	message.SetString(lang, MsgOTPMailGreeting, "Bonjour %s,")
	message.SetString(lang, MsgOTPMailIntro, "Merci de votre inscription. Utilisez le code suivant pour vérifier votre compte :")
	message.SetString(lang, MsgOTPMailCode, "Votre code OTP est : %s")
	message.SetString(lang, MsgOTPMailValidity, "Ce code est valable pendant %d minutes.")
	message.SetString(lang, MsgOTPMailIgnore, "Si vous n'êtes pas à l'origine de cette demande, ignorez cet e-mail.")
	message.SetString(lang, MsgOTPMailNoReply, "Ceci est un message automatique. Merci de ne pas y répondre.")
	message.SetString(lang, MsgOTPSMS, "Bonjour %s, votre code de vérification est %s. Il expire dans %d minutes.")
}
