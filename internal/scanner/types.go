// Package scanner walks a project directory and selects the source files to
// analyze, guarding against scan roots that escape the upload root.
package scanner

// Options configures a Scanner.
type Options struct {
	// UploadRoot is the directory every scan root must resolve inside of.
	// Relative scan roots are interpreted against it.
	UploadRoot string

	// SupportedExtensions limits the walk to these file extensions. An empty
	// list accepts every file.
	SupportedExtensions []string

	// IgnoredDirectories are directory names that are never descended into.
	// Dot-directories are always skipped.
	IgnoredDirectories []string

	// IgnoredFiles are file basenames that are never returned.
	IgnoredFiles []string

	// RespectGitignore filters out paths matched by the scan root's .gitignore.
	RespectGitignore bool
}

// ScanResult is the outcome of a successful scan.
type ScanResult struct {
	// Root is the absolute, symlink-resolved scan root.
	Root string `json:"root"`

	// Files are absolute paths of every qualifying file, sorted.
	Files []string `json:"files"`

	// DirectoryCount is the number of subdirectories visited below Root.
	DirectoryCount int `json:"directory_count"`

	// TestFileCount is the number of Files classified as tests.
	TestFileCount int `json:"test_file_count"`
}
