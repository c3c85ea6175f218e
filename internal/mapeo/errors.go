package mapeo

import "errors"

var (
	// ErrIconNotFound is returned by Icon for a missing file, a file that is
	// not regular, or a file without the .svg extension.
	ErrIconNotFound = errors.New(IconNotFoundMessage)

	// ErrConfigDirectoryNotFound is returned by Config when the configuration
	// directory cannot be accessed.
	ErrConfigDirectoryNotFound = errors.New("Configuration directory not found")
)

// IconNotFoundMessage is the message clients see for a failed icon lookup.
const IconNotFoundMessage = "Icon not found."

// IconError is the JSON body returned for a failed icon lookup.
type IconError struct {
	Error string `json:"error"`
}

// ParseError wraps any failure of Config.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "Failed to parse configuration: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
