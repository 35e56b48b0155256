package recommend

import "errors"

var (
	// ErrEmptyPatientText means the request carried no patient
	// information.
	ErrEmptyPatientText = errors.New("recommend: patient text is empty")

	// ErrNoUsableSources means no document source yielded any text.
	ErrNoUsableSources = errors.New("recommend: no usable document sources")
)
