package observation

// SourceKind distinguishes the two producer families spec §3 defines:
// polling sources (uniquely named, same-name polls are totally ordered)
// and record sources (already time-stamped, no extra ordering constraint).
type SourceKind int

const (
	// SourcePolling tags an observation that came from polling a platform
	// for its current snapshot.
	SourcePolling SourceKind = iota
	// SourceRecord tags an observation that came from reading a
	// time-stamped change record.
	SourceRecord
)

// Source identifies the producer of an Observation.
type Source struct {
	Kind SourceKind
	Name string
}

// Polling builds a polling Source with the given producer name.
func Polling(name string) Source {
	return Source{Kind: SourcePolling, Name: name}
}

// Record builds a record Source with the given producer name.
func Record(name string) Source {
	return Source{Kind: SourceRecord, Name: name}
}

// SamePollingSource reports whether a and b are both polling sources with
// the same name — the condition under which spec §3 requires distinct
// interval.lo values.
func SamePollingSource(a, b Source) bool {
	return a.Kind == SourcePolling && b.Kind == SourcePolling && a.Name == b.Name
}
