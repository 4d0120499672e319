package pacman

import "strings"

// Commands assembles the pacman command lines the engine issues.
// Queries run unprivileged; mutating commands go through sudo unless
// disabled (tests, containers already running as root).
type Commands struct {
	// Binary is the package manager binary, "pacman" when empty.
	Binary string

	// NoSudo drops the sudo prefix from mutating commands.
	NoSudo bool
}

func (c Commands) bin() string {
	if c.Binary == "" {
		return "pacman"
	}
	return c.Binary
}

func (c Commands) sudo() string {
	if c.NoSudo {
		return ""
	}
	return "sudo "
}

// Upgrade is the full system upgrade used for --fix cycles. The
// overwrite glob resolves file ownership conflicts on upgrade, the
// usual failure mode of a freshly installed metadistribution.
func (c Commands) Upgrade() string {
	return c.sudo() + c.bin() + " -Syuv --needed --noconfirm --overwrite=/*"
}

// Install drives resolution for one package. The yes pipe auto-confirms
// interactive prompts; stderr is folded into stdout because pacman
// splits its diagnostics across both.
func (c Commands) Install(pkg string) string {
	return "yes | " + c.sudo() + c.bin() + " -Syv " + pkg + " 2>&1"
}

// Remove uninstalls one package without confirmation.
func (c Commands) Remove(pkg string) string {
	return c.sudo() + c.bin() + " -R --noconfirm " + pkg + " 2>&1"
}

// QueryLocal queries the local package database.
func (c Commands) QueryLocal(pkg string) string {
	return c.bin() + " -Qi " + pkg + " 2>&1"
}

// QueryRepo queries the configured repositories.
func (c Commands) QueryRepo(pkg string) string {
	return c.bin() + " -Si " + pkg + " 2>&1"
}

// Reinstall installs the given packages in a single invocation.
func (c Commands) Reinstall(pkgs []string) string {
	return c.sudo() + c.bin() + " -Sy --noconfirm " + strings.Join(pkgs, " ")
}
