package domain

import "errors"

// Exported error variables allow callers to use errors.Is() for error checking.
var (
	ErrDialogClosed    = errors.New("dialog closed")
	ErrWrongPath       = errors.New("game.cfg and PersistedSettings.json not found in the selected folder")
	ErrMissingPath     = errors.New("game install path is not configured")
	ErrNameTaken       = errors.New("profile name already taken")
	ErrZipExport       = errors.New("failed to export profile archive")
	ErrZipImport       = errors.New("failed to import profile archive")
	ErrChampionTaken   = errors.New("champion already bound to another profile")
	ErrImport          = errors.New("failed to parse shared profile")
	ErrNoFreeName      = errors.New("no free profile name left")
	ErrProfileNotFound = errors.New("profile not found")
)

// Profile name validation errors.
var (
	ErrProfileNameEmpty        = errors.New("profile name cannot be empty")
	ErrProfileNameDot          = errors.New("profile name cannot start with '.'")
	ErrProfileNameNonPrintable = errors.New("profile name contains non-printable characters")
	ErrProfileNameInvalidChars = errors.New("profile name contains invalid characters (<>:\"/|?*)")
	ErrProfileNameReserved     = errors.New("profile name is a reserved system filename")
	ErrProfileNameNullByte     = errors.New("profile name contains null byte")
)
