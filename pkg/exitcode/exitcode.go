// Package exitcode provides standardized exit codes for zoomaker
package exitcode

// Exit codes for the zoomaker CLI
const (
	Success         = 0
	GeneralError    = 1
	ManifestError   = 2
	FetchError      = 3
	FileSystemError = 4
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ManifestError:
		return "Manifest error"
	case FetchError:
		return "Fetch error"
	case FileSystemError:
		return "File system error"
	default:
		return "Unknown error"
	}
}
