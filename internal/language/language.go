package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Spec identifies a transcription language.
type Spec struct {
	// Code is the ISO 639-1 code, e.g. "hi".
	Code string
	// Region is the BCP 47 tag including region, e.g. "hi-IN".
	Region string
	// Display is the English name, e.g. "Hindi".
	Display string
}

// String returns the region tag.
func (s Spec) String() string { return s.Region }

// IsZero reports whether the spec is unset.
func (s Spec) IsZero() bool { return s.Code == "" }

type entry struct {
	code2   string
	code3   string
	alt3    string
	region  string
	display string
	words   []string
}

var languages = []entry{
	{"hi", "hin", "", "IN", "Hindi", []string{"hindi"}},
	{"en", "eng", "", "US", "English", []string{"english"}},
	{"ur", "urd", "", "PK", "Urdu", []string{"urdu"}},
	{"bn", "ben", "", "IN", "Bengali", []string{"bengali", "bangla"}},
	{"ta", "tam", "", "IN", "Tamil", []string{"tamil"}},
	{"te", "tel", "", "IN", "Telugu", []string{"telugu"}},
	{"mr", "mar", "", "IN", "Marathi", []string{"marathi"}},
	{"gu", "guj", "", "IN", "Gujarati", []string{"gujarati"}},
	{"pa", "pan", "", "IN", "Punjabi", []string{"punjabi"}},
	{"es", "spa", "", "ES", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "FR", "French", []string{"french"}},
	{"de", "deu", "ger", "DE", "German", []string{"german"}},
	{"pt", "por", "", "BR", "Portuguese", []string{"portuguese"}},
	{"ar", "ara", "", "SA", "Arabic", []string{"arabic"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

// Default is used when no language is given or the choice is not recognized.
var Default = Spec{Code: "hi", Region: "hi-IN", Display: "Hindi"}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

func (e *entry) spec() Spec {
	return Spec{Code: e.code2, Region: e.code2 + "-" + e.region, Display: e.display}
}

// Resolve maps a language name, ISO code, or BCP 47 tag to a Spec.
// Unrecognized or empty input resolves to Default.
func Resolve(choice string) Spec {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return Default
	}
	if e := lookup(choice); e != nil {
		return e.spec()
	}
	tag, err := language.Parse(strings.ReplaceAll(choice, "_", "-"))
	if err != nil || tag == language.Und {
		return Default
	}
	base, conf := tag.Base()
	if conf == language.No {
		return Default
	}
	region, _ := tag.Region()
	if e := lookup(base.String()); e != nil {
		spec := e.spec()
		if region.String() != "ZZ" {
			spec.Region = e.code2 + "-" + region.String()
		}
		return spec
	}
	name := display.English.Tags().Name(language.Make(base.String()))
	if name == "" {
		name = strings.ToUpper(base.String())
	}
	code := base.String()
	if len(code) != 2 {
		return Default
	}
	return Spec{Code: code, Region: code + "-" + region.String(), Display: name}
}

// ToISO2 converts a recognized language code or word to ISO 639-1.
// Returns empty string for unrecognized input; unknown 2-letter codes pass
// through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable name for any recognized code.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Supported lists the display names of the built-in languages.
func Supported() []string {
	names := make([]string, 0, len(languages))
	for _, e := range languages {
		names = append(names, e.display)
	}
	return names
}
