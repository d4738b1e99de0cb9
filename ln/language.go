package ln

// Language holds the UI strings for one interface language. Target
// languages for translation are not listed here; their names are fixed.
type Language struct {
	ID       int32
	Emoji    string
	SelfName string

	AppTitle string

	AuthSignOut string

	ErrorPageHead         string
	ErrorPageInstructions string

	HomeClearHistory      string
	HomeHistory           string
	HomeInstructions      string
	HomeNoTranslations    string
	HomeOutputPlaceholder string
	HomeTextToTranslate   string
	HomeTranslate         string
	HomeTranslateTo       string
	HomeTranslation       string
	HomeSourcePrefix      string

	LoginCreateAccount       string
	LoginCreateAccountFailed string
	LoginEmail               string
	LoginFailed              string
	LoginPassword            string
	LoginSignIn              string
	LoginWelcome             string
	LoginWithGoogle          string

	NavbarDebug      string
	NavbarTranslator string
}

var NO = &Language{
	ID:       1,
	Emoji:    "🇳🇴",
	SelfName: "Norsk",

	AppTitle: "TranslateMe",

	AuthSignOut: "Logg ut",

	ErrorPageHead:         "Feilmelding",
	ErrorPageInstructions: "Det skjedde noe feil under lasting av siden. Feilen har blitt logget. Den tekniske feilmeldingen følger under.",

	HomeClearHistory:      "Tøm historikk",
	HomeHistory:           "Historikk",
	HomeInstructions:      "Skriv inn tekst på engelsk, velg et språk og trykk Oversett.",
	HomeNoTranslations:    "Ingen oversettelser ennå.",
	HomeOutputPlaceholder: "Oversettelsen din vises her.",
	HomeTextToTranslate:   "Tekst som skal oversettes",
	HomeTranslate:         "Oversett",
	HomeTranslateTo:       "Oversett til",
	HomeTranslation:       "Oversettelse",
	HomeSourcePrefix:      "EN",

	LoginCreateAccount:       "Opprett konto",
	LoginCreateAccountFailed: "Kunne ikke opprette konto.",
	LoginEmail:               "E-post",
	LoginFailed:              "Innlogging feilet. Sjekk e-post og passord.",
	LoginPassword:            "Passord",
	LoginSignIn:              "Logg inn",
	LoginWelcome:             "Velkommen! Logg inn eller opprett en konto for å fortsette.",
	LoginWithGoogle:          "Logg inn med Google",

	NavbarDebug:      "Status",
	NavbarTranslator: "Oversetter",
}

var EN = &Language{
	ID:       2,
	Emoji:    "🇬🇧",
	SelfName: "English",

	AppTitle: "TranslateMe",

	AuthSignOut: "Sign Out",

	ErrorPageHead:         "Error",
	ErrorPageInstructions: "Something went wrong while loading the page. The error has been logged. The technical error message follows below.",

	HomeClearHistory:      "Clear History",
	HomeHistory:           "History",
	HomeInstructions:      "Enter text in English, choose a language, and tap Translate.",
	HomeNoTranslations:    "No translations yet.",
	HomeOutputPlaceholder: "Your translation will appear here.",
	HomeTextToTranslate:   "Text to Translate",
	HomeTranslate:         "Translate",
	HomeTranslateTo:       "Translate To",
	HomeTranslation:       "Translation",
	HomeSourcePrefix:      "EN",

	LoginCreateAccount:       "Create Account",
	LoginCreateAccountFailed: "Account creation failed.",
	LoginEmail:               "Email",
	LoginFailed:              "Login failed. Check your email and password.",
	LoginPassword:            "Password",
	LoginSignIn:              "Sign In",
	LoginWelcome:             "Welcome! Please sign in or create an account to continue.",
	LoginWithGoogle:          "Sign in with Google",

	NavbarDebug:      "Status",
	NavbarTranslator: "Translator",
}

var Languages = map[int32]*Language{
	NO.ID: NO,
	EN.ID: EN,
}

// All returns the UI languages in a stable order.
func All() []*Language {
	return []*Language{EN, NO}
}

func GetLanguage(id int32) *Language {
	lang, ok := Languages[id]
	if !ok {
		return EN
	}
	return lang
}
