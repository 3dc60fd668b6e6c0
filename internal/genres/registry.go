package genres

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Spec describes the effect chain applied for a target genre. The filter
// chain is an opaque ffmpeg -af argument consumed only by the processor
// client; the orchestrator never interprets it.
type Spec struct {
	ID          string
	FilterChain string
}

// DefaultID identifies the fallback "mild enhancement" spec applied when a
// requested genre is unknown.
const DefaultID = "default"

// Filter chains mirror the effect tables the service was built around.
// Frequencies are in Hz, gains in dB.
const (
	rockChain       = "compand=attacks=0:decays=0.1:points=-90/-60|-40/-10|0/-3:soft-knee=6,highpass=f=60,equalizer=f=800:width_type=o:width=2:g=10,equalizer=f=1400:width_type=o:width=2:g=12,equalizer=f=4000:width_type=o:width=2:g=8,volume=3"
	popChain        = "compand=attacks=0.01:decays=0.3:points=-80/-80|-30/-12|0/-6:soft-knee=4,equalizer=f=120:width_type=o:width=2:g=4,equalizer=f=3000:width_type=o:width=2:g=6,equalizer=f=10000:width_type=o:width=2:g=5,aecho=0.7:0.7:30|50:0.3|0.2,volume=1.8"
	jazzChain       = "equalizer=f=300:width_type=o:width=2:g=5,equalizer=f=800:width_type=o:width=2:g=4,equalizer=f=2000:width_type=o:width=2:g=-2,aecho=0.8:0.8:20|30:0.4|0.3,atempo=1.02,volume=1.5"
	classicalChain  = "aecho=0.9:0.9:1000|1800|2600:0.6|0.5|0.4,highpass=f=40,lowpass=f=16000,equalizer=f=800:width_type=o:width=2:g=3,atempo=1.05,dynaudnorm=f=10:g=5:p=0.7,volume=1.5"
	electronicChain = "aecho=0.9:0.9:60|90|120:0.7|0.5|0.4,highpass=f=60,equalizer=f=5000:width_type=o:width=2:g=8,atempo=0.9,volume=2.0"
	hiphopChain     = "equalizer=f=60:width_type=o:width=2:g=15,equalizer=f=100:width_type=o:width=2:g=12,equalizer=f=150:width_type=o:width=1:g=8,atempo=1.1,volume=2.0"
	reggaeChain     = "equalizer=f=60:width_type=o:width=2:g=8,equalizer=f=100:width_type=o:width=2:g=6,aecho=0.9:0.9:80|120:0.5|0.4,atempo=1.05,volume=1.6"
	countryChain    = "equalizer=f=2000:width_type=o:width=2:g=8,equalizer=f=4000:width_type=o:width=2:g=5,equalizer=f=6000:width_type=o:width=2:g=6,aecho=0.8:0.8:20|40:0.4|0.3,volume=1.8"
	defaultChain    = "equalizer=f=1000:width_type=q:width=2:g=5,volume=1.5"
)

// Registry is an immutable genre-id to effect-spec mapping. Construct one
// with NewRegistry and inject it where transformations are orchestrated;
// nothing in this package holds mutable state.
type Registry struct {
	specs       map[string]Spec
	order       []string
	defaultSpec Spec
}

// NewRegistry builds the registry with the built-in genre effect chains.
func NewRegistry() *Registry {
	ordered := []Spec{
		{ID: "rock", FilterChain: rockChain},
		{ID: "pop", FilterChain: popChain},
		{ID: "jazz", FilterChain: jazzChain},
		{ID: "classical", FilterChain: classicalChain},
		{ID: "electronic", FilterChain: electronicChain},
		{ID: "hiphop", FilterChain: hiphopChain},
		{ID: "reggae", FilterChain: reggaeChain},
		{ID: "country", FilterChain: countryChain},
	}
	specs := make(map[string]Spec, len(ordered))
	order := make([]string, 0, len(ordered))
	for _, spec := range ordered {
		specs[spec.ID] = spec
		order = append(order, spec.ID)
	}
	return &Registry{
		specs:       specs,
		order:       order,
		defaultSpec: Spec{ID: DefaultID, FilterChain: defaultChain},
	}
}

// SpecFor returns the effect spec for a genre id. The boolean reports
// whether the genre is known; callers decide whether to fall back to
// Default or reject.
func (r *Registry) SpecFor(genre string) (Spec, bool) {
	spec, ok := r.specs[genre]
	return spec, ok
}

// Default returns the mild enhancement spec used for unknown genres.
func (r *Registry) Default() Spec {
	return r.defaultSpec
}

// IsKnown reports whether a genre id has a dedicated effect chain.
func (r *Registry) IsKnown(genre string) bool {
	_, ok := r.specs[genre]
	return ok
}

// IDs returns the known genre ids in registration order.
func (r *Registry) IDs() []string {
	cp := make([]string, len(r.order))
	copy(cp, r.order)
	return cp
}

// DisplayName renders a genre id as a user-facing label.
func DisplayName(genre string) string {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return ""
	}
	if genre == "hiphop" {
		return "Hip-Hop"
	}
	return cases.Title(language.English).String(genre)
}

// DetectFromFilename returns the first known genre id appearing as a
// substring of the lowercased filename, or empty when none match. This is
// the advisory filename sniff used to pre-populate an artifact's detected
// genre; it is never used to pick an effect chain.
func (r *Registry) DetectFromFilename(filename string) string {
	lowered := strings.ToLower(filename)
	for _, id := range r.order {
		if strings.Contains(lowered, id) {
			return id
		}
	}
	return ""
}
