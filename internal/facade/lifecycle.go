package facade

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jmylchreest/relaydesk/internal/config"
	"github.com/jmylchreest/relaydesk/internal/httpreq"
	"github.com/jmylchreest/relaydesk/internal/jobs"
	"github.com/jmylchreest/relaydesk/internal/update"
)

// OptionLicense is the local option holding the license of a custom build.
const OptionLicense = "license"

// GetVersion returns the running version.
func (a *Adapter) GetVersion() string { return a.Version }

// GetAppName returns the application name.
func (a *Adapter) GetAppName() string { return config.AppName }

// IsRelease reports whether this is a tagged release build.
func (a *Adapter) IsRelease() bool {
	v := strings.TrimPrefix(a.Version, "v")
	return v != "" && v != "dev" && !strings.Contains(v, "-")
}

// GetNewVersion returns the newer version offered by the update check, or "".
func (a *Adapter) GetNewVersion() string {
	return a.Updates.NewVersion()
}

// GetSoftwareUpdateURL returns the download page of the newer version.
func (a *Adapter) GetSoftwareUpdateURL() string {
	return a.Updates.DownloadURL()
}

// GetSoftwareExt returns the package format updates are offered in.
func (a *Adapter) GetSoftwareExt() string {
	return a.Host.SoftwareExt()
}

// GetSoftwareStorePath returns where the new version's package is saved.
func (a *Adapter) GetSoftwareStorePath() string {
	v := a.Updates.NewVersion()
	if v == "" {
		v = a.Version
	}
	return a.Host.SoftwareStorePath(v)
}

// InstallPath returns the installation directory.
func (a *Adapter) InstallPath() string {
	return a.Host.InstallPath()
}

// InstallOptions returns the installer checkbox defaults as a JSON object.
func (a *Adapter) InstallOptions() string {
	data, err := json.Marshal(map[string]bool{
		"desktopicon": true,
		"startmenu":   true,
	})
	if err != nil {
		return "{}"
	}
	return string(data)
}

// IsInstalled reports whether the running binary is the installed one.
func (a *Adapter) IsInstalled() bool { return a.Host.IsInstalled() }

// IsRoot reports whether the client runs with root privileges.
func (a *Adapter) IsRoot() bool { return a.Host.IsRoot() }

// IsInstalledLowerVersion reports whether an older version is installed.
func (a *Adapter) IsInstalledLowerVersion() bool {
	installed := a.Host.InstalledVersion()
	if installed == "" {
		return false
	}
	return update.LowerThan(installed, a.Version)
}

// ShowRunWithoutInstall reports whether the home page offers to run this
// binary without installing it.
func (a *Adapter) ShowRunWithoutInstall() bool {
	return !a.Host.IsInstalled() && !a.Host.IsRoot()
}

// RunWithoutInstall starts the regular client from this binary.
func (a *Adapter) RunWithoutInstall() {
	a.command("run-without-install", a.Launcher.Self())
}

// GotoInstall opens the installer window.
func (a *Adapter) GotoInstall() {
	a.command("goto-install", a.Launcher.Self("--install"))
}

// InstallMe installs this binary. Polled with GetAsyncJobStatus(jobs.KeyInstall).
func (a *Adapter) InstallMe(options, path string) {
	a.runJob(jobs.KeyInstall, func(ctx context.Context) (string, error) {
		return "", a.Installer.Install(ctx, options, path)
	})
}

// UpdateMe installs the downloaded package at path. Polled with
// GetAsyncJobStatus(jobs.KeyUpdate).
func (a *Adapter) UpdateMe(path string) {
	a.runJob(jobs.KeyUpdate, func(ctx context.Context) (string, error) {
		return "", a.Installer.Update(ctx, path)
	})
}

// IsProcessTrusted reports whether input injection is permitted.
func (a *Adapter) IsProcessTrusted() bool { return a.Host.IsProcessTrusted() }

// IsCanScreenRecording reports whether screen capture is permitted.
func (a *Adapter) IsCanScreenRecording() bool { return a.Host.CanScreenRecord() }

// IsInstalledDaemon reports whether the service unit is installed.
func (a *Adapter) IsInstalledDaemon() bool { return a.Host.IsInstalledDaemon() }

// GetError returns a blocking problem with the desktop session, or "".
// A Wayland session behind an X11 login screen cannot be captured.
func (a *Adapter) GetError() string {
	if a.Host.CurrentIsWayland() && !a.Host.IsLoginWayland() {
		return a.T("Unsupported display server")
	}
	return ""
}

// IsLoginWayland reports whether the login screen runs under Wayland.
func (a *Adapter) IsLoginWayland() bool { return a.Host.IsLoginWayland() }

// CurrentIsWayland reports whether this session runs under Wayland.
func (a *Adapter) CurrentIsWayland() bool { return a.Host.CurrentIsWayland() }

// IsXfce reports whether the desktop is Xfce.
func (a *Adapter) IsXfce() bool { return a.Host.IsXfce() }

// GetLicense returns the license of a custom build, or "".
func (a *Adapter) GetLicense() string {
	return a.Options.LocalOption(OptionLicense)
}

// OpenURL opens url in the default browser.
func (a *Adapter) OpenURL(url string) {
	a.command("open-url", a.Launcher.OpenURL(url))
}

// HTTPRequest sends a request in the background. The serialized response
// is read with GetHTTPStatus(url).
func (a *Adapter) HTTPRequest(url, method, body, header string) {
	a.runJob(jobs.HTTPKey(url), func(ctx context.Context) (string, error) {
		resp, err := a.Requester.Do(ctx, httpreq.Request{
			Method: method,
			URL:    url,
			Body:   body,
			Header: header,
		})
		if err != nil {
			return "", err
		}
		return resp.JSON(), nil
	})
}

// PostRequest posts body in the background. The response body is polled
// with GetAsyncJobStatus(jobs.KeyPostRequest).
func (a *Adapter) PostRequest(url, body, header string) {
	a.runJob(jobs.KeyPostRequest, func(ctx context.Context) (string, error) {
		return a.Requester.Post(ctx, url, body, header)
	})
}

// GetHTTPStatus returns the outcome of the last HTTPRequest to url. The
// second result is false while the request is pending or was never made.
func (a *Adapter) GetHTTPStatus(url string) (string, bool) {
	st := a.Jobs.Status(jobs.HTTPKey(url))
	switch st.State {
	case jobs.StateSucceeded:
		return st.Result, true
	case jobs.StateFailed:
		return st.Err, true
	default:
		return "", false
	}
}

// T translates a front-end string.
func (a *Adapter) T(name string) string {
	return a.Translator.T(name)
}

// GetLangs returns the available languages as a JSON array of
// [code, name] pairs.
func (a *Adapter) GetLangs() string {
	langs := a.Translator.Langs()
	if len(langs) == 0 {
		return "[]"
	}
	data, err := json.Marshal(langs)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// GetSoundInputs lists the audio capture devices offered for sharing.
func (a *Adapter) GetSoundInputs() []string {
	inputs := a.Host.SoundInputs()
	if inputs == nil {
		return []string{}
	}
	return inputs
}

// CurrentSession returns the handle of the active remote session, or "".
func (a *Adapter) CurrentSession() string {
	return a.Sessions.CurrentID()
}
