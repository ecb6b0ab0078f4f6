package mapper

// Profile names the positional layout of one sending system's order
// message. Upstream systems disagree on where the accession number lives
// in OBR (OBR-2/OBR-3 on the primary RIS, OBR-18 on at least one PACS
// broker), so the indices are configuration per sender, never guessed.
type Profile struct {
	Name string

	// AccessionFields are the OBR indices probed in order; the first
	// field with a non-empty first component wins.
	AccessionFields []int

	// ExamField is the OBR index of the universal service / procedure
	// field (code^description).
	ExamField int

	// PriorityField and StartField are TQ1 indices for the stat flag and
	// the quantity/timing start timestamp.
	PriorityField int
	StartField    int

	// DefaultModality seeds the imaging study until the image receiver
	// reports the real one.
	DefaultModality string
}

// DefaultProfile matches the primary upstream RIS: accession in OBR-2
// with OBR-3 fallback, procedure in OBR-4, priority in TQ1-8.
func DefaultProfile() Profile {
	return Profile{
		Name:            "default",
		AccessionFields: []int{2, 3},
		ExamField:       4,
		PriorityField:   8,
		StartField:      7,
		DefaultModality: "US",
	}
}

// Registry resolves the mapping profile for a message by its sending
// application (MSH-3). Unknown senders fall back to the default profile.
type Registry struct {
	fallback Profile
	bySender map[string]Profile
}

func NewRegistry(fallback Profile, overrides map[string]Profile) *Registry {
	senders := make(map[string]Profile, len(overrides))
	for app, p := range overrides {
		senders[app] = p
	}
	return &Registry{fallback: fallback, bySender: senders}
}

// ForSender returns the profile registered for the sending application,
// or the fallback when the sender is unknown or empty.
func (r *Registry) ForSender(app string) Profile {
	if p, ok := r.bySender[app]; ok {
		return p
	}
	return r.fallback
}
