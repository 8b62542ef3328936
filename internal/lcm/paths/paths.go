package paths

import "path/filepath"

// File and directory names used by the game client and by lcm.
const (
	AppDirName       = "league_config_manager"
	ConfigFileName   = "config.json"
	LogFileName      = "lcm.log"
	BackupDirName    = ".backups"
	GameFileName     = "game.cfg"
	SettingsFileName = "PersistedSettings.json"
	SidecarFileName  = "settings.json"
	InstallConfigDir = "Config"
	LockfileName     = "lockfile"
)

// PathBuilder provides methods to construct lcm paths relative to a data directory.
type PathBuilder struct {
	dataDir string
}

// New creates a new PathBuilder for the given data directory.
func New(dataDir string) *PathBuilder {
	return &PathBuilder{dataDir: dataDir}
}

// DataDir returns the application data directory.
func (p *PathBuilder) DataDir() string {
	return p.dataDir
}

// ConfigFile returns the path of the app config file.
func (p *PathBuilder) ConfigFile() string {
	return filepath.Join(p.dataDir, ConfigFileName)
}

// LogFile returns the path the interactive UI logs to.
func (p *PathBuilder) LogFile() string {
	return filepath.Join(p.dataDir, LogFileName)
}

// ProfileRoot returns the directory holding one subdirectory per profile.
// Profiles share the data directory with config.json; only directories are profiles.
func (p *PathBuilder) ProfileRoot() string {
	return p.dataDir
}

// BackupDir returns the directory where overwritten game files are backed up.
// The leading dot keeps it out of the profile listing.
func (p *PathBuilder) BackupDir() string {
	return filepath.Join(p.dataDir, BackupDirName)
}

// ProfileDir returns the directory of a named profile.
func (p *PathBuilder) ProfileDir(name string) string {
	return filepath.Join(p.ProfileRoot(), name)
}

// ProfileFile returns a file inside a named profile.
func (p *PathBuilder) ProfileFile(name, file string) string {
	return filepath.Join(p.ProfileDir(name), file)
}

// SidecarPath returns the metadata file of a named profile.
func (p *PathBuilder) SidecarPath(name string) string {
	return p.ProfileFile(name, SidecarFileName)
}

// InstallConfig returns the Config directory of a game install.
func InstallConfig(installDir string) string {
	return filepath.Join(installDir, InstallConfigDir)
}

// Lockfile returns the client lockfile of a game install.
func Lockfile(installDir string) string {
	return filepath.Join(installDir, LockfileName)
}
