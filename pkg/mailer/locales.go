package mailer

import "strings"

// Bundle is the localized wording for a username-change confirmation.
type Bundle struct {
	Subject string
	Body    string // prefix; the dispatcher appends ": <new username>"
	Footer  string
}

// DefaultLocale is the fallback when the user's preferred language is unset
// or unsupported.
const DefaultLocale = "en"

// bundles is the per-locale message table, loaded once at startup.
var bundles = map[string]Bundle{
	"en": {
		Subject: "Your username has been updated successfully",
		Body:    "Your username has been updated to",
		Footer:  "Thanks for keeping your account secure.",
	},
	"es": {
		Subject: "Su nombre de usuario se ha actualizado correctamente",
		Body:    "Su nombre de usuario se ha actualizado a",
		Footer:  "Gracias por mantener su cuenta segura.",
	},
	"fr": {
		Subject: "Votre nom d'utilisateur a été mis à jour avec succès",
		Body:    "Votre nom d'utilisateur a été mis à jour en",
		Footer:  "Merci de garder votre compte sécurisé.",
	},
	"pt": {
		Subject: "Seu nome de usuário foi atualizado com sucesso",
		Body:    "Seu nome de usuário foi atualizado para",
		Footer:  "Obrigado por manter sua conta segura.",
	},
	"ar": {
		Subject: "تم تحديث اسم المستخدم الخاص بك بنجاح",
		Body:    "تم تحديث اسم المستخدم الخاص بك إلى",
		Footer:  "شكرًا للحفاظ على أمان حسابك.",
	},
	"id": {
		Subject: "Nama pengguna Anda berhasil diperbarui",
		Body:    "Nama pengguna Anda telah diperbarui menjadi",
		Footer:  "Terima kasih telah menjaga keamanan akun Anda.",
	},
}

// BundleFor selects the message bundle for a locale code, case-insensitively.
// Unknown or empty codes fall back to fallback, then to DefaultLocale.
func BundleFor(locale, fallback string) Bundle {
	if b, ok := bundles[strings.ToLower(strings.TrimSpace(locale))]; ok {
		return b
	}
	if b, ok := bundles[strings.ToLower(strings.TrimSpace(fallback))]; ok {
		return b
	}
	return bundles[DefaultLocale]
}

// SupportedLocales lists the locale codes present in the bundle table.
func SupportedLocales() []string {
	out := make([]string, 0, len(bundles))
	for code := range bundles {
		out = append(out, code)
	}
	return out
}
