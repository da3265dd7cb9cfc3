package match

import (
	"os"
)

// EntryType classifies a probed file-system entry.
type EntryType int

const (
	// EntryMissing is reported for paths that do not exist.
	EntryMissing EntryType = iota
	EntryDirectory
	EntryFile
)

func (t EntryType) String() string {
	switch t {
	case EntryDirectory:
		return "directory"
	case EntryFile:
		return "file"
	case EntryMissing:
		return "missing"
	}

	return "unknown"
}

// Prober reports the type of a file-system entry.
type Prober interface {
	Probe(path string) EntryType
}

// ProberFunc adapts a function to a [Prober].
type ProberFunc func(path string) EntryType

func (f ProberFunc) Probe(path string) EntryType {
	return f(path)
}

// StatProber probes entries with [os.Stat], following symbolic links.
// Anything that exists and is not a directory counts as a file.
type StatProber struct{}

func (StatProber) Probe(path string) EntryType {
	fi, err := os.Stat(path)
	if err != nil {
		return EntryMissing
	}

	if fi.IsDir() {
		return EntryDirectory
	}

	return EntryFile
}
