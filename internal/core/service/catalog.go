package service

var catalogs = map[string]map[string]string{
	"en": {
		"common.loading":   "Loading...",
		"common.save":      "Save",
		"common.cancel":    "Cancel",
		"common.delete":    "Delete",
		"common.edit":      "Edit",
		"common.create":    "Create",
		"common.search":    "Search",
		"common.noResults": "No results found",
		"common.error":     "An error occurred",
		"common.success":   "Success",

		"auth.login":              "Sign In",
		"auth.logout":             "Sign Out",
		"auth.email":              "Email",
		"auth.password":           "Password",
		"auth.loginTitle":         "Sign in to your account",
		"auth.loginSubtitle":      "Enter your email below to login to your account",
		"auth.loginButton":        "Login",
		"auth.loggingIn":          "Logging in...",
		"auth.invalidCredentials": "Invalid email or password",
		"auth.welcomeBack":        "Welcome back",

		"nav.dashboard": "Dashboard",
		"nav.settings":  "Settings",
		"nav.profile":   "Profile",
		"nav.home":      "Home",

		"dashboard.title":   "Dashboard",
		"dashboard.welcome": "Welcome to your dashboard",
	},
	"cs": {
		"common.loading":   "Načítání...",
		"common.save":      "Uložit",
		"common.cancel":    "Zrušit",
		"common.delete":    "Smazat",
		"common.edit":      "Upravit",
		"common.create":    "Vytvořit",
		"common.search":    "Hledat",
		"common.noResults": "Žádné výsledky",
		"common.error":     "Došlo k chybě",
		"common.success":   "Úspěch",

		"auth.login":              "Přihlásit se",
		"auth.logout":             "Odhlásit se",
		"auth.email":              "E-mail",
		"auth.password":           "Heslo",
		"auth.loginTitle":         "Přihlaste se do svého účtu",
		"auth.loginSubtitle":      "Zadejte svůj e-mail pro přihlášení",
		"auth.loginButton":        "Přihlásit",
		"auth.loggingIn":          "Přihlašování...",
		"auth.invalidCredentials": "Nesprávný e-mail nebo heslo",
		"auth.welcomeBack":        "Vítejte zpět",

		"nav.dashboard": "Nástěnka",
		"nav.settings":  "Nastavení",
		"nav.profile":   "Profil",
		"nav.home":      "Domů",

		"dashboard.title":   "Nástěnka",
		"dashboard.welcome": "Vítejte na vaší nástěnce",
	},
}

// DefaultCatalog returns a copy of the built-in catalog for locale, or nil.
func DefaultCatalog(locale string) map[string]string {
	src, ok := catalogs[locale]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
