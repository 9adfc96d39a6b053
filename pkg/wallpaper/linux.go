//go:build linux
// +build linux

package wallpaper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dixieflatline76/wallbridge/pkg/sysinfo"
	"github.com/dixieflatline76/wallbridge/util/log"
	"github.com/godbus/dbus/v5"
)

// gnomeDarkURIVersion is the first GNOME release with a separate dark-style background.
const gnomeDarkURIVersion = "42"

// DetectStrategy inspects the running desktop session and returns the backend for it.
func DetectStrategy() Strategy {
	s := selectStrategy(sysinfo.DetectDesktop(), sysinfo.GNOMEShellVersion)
	log.Printf("Wallpaper strategy: %s", s.Name())
	return s
}

// selectStrategy maps a desktop session to a strategy. gnomeVersion is only
// consulted for GNOME-family desktops.
func selectStrategy(d sysinfo.Desktop, gnomeVersion func() (string, error)) Strategy {
	switch {
	case d.Is("cinnamon"):
		return cinnamonStrategy{}
	case d.Is("gnome", "unity", "mutter", "budgie"):
		v, err := gnomeVersion()
		if err != nil {
			log.Printf("Could not detect GNOME version, using legacy settings: %v", err)
			return gnomeStrategy{}
		}
		return gnomeStrategy{darkVariant: sysinfo.AtLeast(v, gnomeDarkURIVersion)}
	case d.Is("kde", "plasma"):
		return kdeStrategy{}
	case d.Is("sway"):
		return swayStrategy{}
	case d.Is("xfce") && !d.Wayland:
		return xfceStrategy{}
	default:
		return unsupportedStrategy{desktop: d.Name}
	}
}

// fileURI turns an absolute path into a file:// URI.
func fileURI(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}

// gnomeStrategy sets org.gnome.desktop.background. On GNOME 42+ the dark-style
// key is set as well so the image shows regardless of the colour scheme.
// The screensaver (lock screen) schema is left alone.
type gnomeStrategy struct {
	darkVariant bool
}

func (g gnomeStrategy) Name() string {
	if g.darkVariant {
		return "gnome"
	}
	return "gnome-legacy"
}

func (g gnomeStrategy) Apply(path string, target Target, _ bool) error {
	if err := checkTarget(target, TargetSystem); err != nil {
		return err
	}
	uri := fileURI(path)
	if err := runCommand("gsettings", "set", "org.gnome.desktop.background", "picture-uri", uri); err != nil {
		return err
	}
	if g.darkVariant {
		return runCommand("gsettings", "set", "org.gnome.desktop.background", "picture-uri-dark", uri)
	}
	return nil
}

// cinnamonStrategy sets org.cinnamon.desktop.background, which Cinnamon reads
// instead of the GNOME schema.
type cinnamonStrategy struct{}

func (cinnamonStrategy) Name() string {
	return "cinnamon"
}

func (cinnamonStrategy) Apply(path string, target Target, _ bool) error {
	if err := checkTarget(target, TargetSystem); err != nil {
		return err
	}
	return runCommand("gsettings", "set", "org.cinnamon.desktop.background", "picture-uri", fileURI(path))
}

// evaluatePlasmaScript runs a script in plasmashell over the session bus.
var evaluatePlasmaScript = func(script string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object("org.kde.plasmashell", "/PlasmaShell")
	if call := obj.Call("org.kde.PlasmaShell.evaluateScript", 0, script); call.Err != nil {
		return fmt.Errorf("plasmashell evaluateScript: %w", call.Err)
	}
	return nil
}

// kdeStrategy sets the image plugin wallpaper on every Plasma desktop.
type kdeStrategy struct{}

func (kdeStrategy) Name() string {
	return "kde"
}

func (kdeStrategy) Apply(path string, target Target, _ bool) error {
	if err := checkTarget(target, TargetSystem); err != nil {
		return err
	}
	return evaluatePlasmaScript(plasmaScript(fileURI(path)))
}

func plasmaScript(uri string) string {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(uri)
	return fmt.Sprintf(`var allDesktops = desktops();
for (var i = 0; i < allDesktops.length; i++) {
    var d = allDesktops[i];
    d.wallpaperPlugin = "org.kde.image";
    d.currentConfigGroup = Array("Wallpaper", "org.kde.image", "General");
    d.writeConfig("Image", "%s");
}`, quoted)
}

// xfceDefaultProperty is used when xfconf has no last-image properties yet.
const xfceDefaultProperty = "/backdrop/screen0/monitor0/workspace0/last-image"

// xfceStrategy updates every last-image property of the xfce4-desktop channel.
type xfceStrategy struct{}

func (xfceStrategy) Name() string {
	return "xfce"
}

func (xfceStrategy) Apply(path string, target Target, _ bool) error {
	if err := checkTarget(target, TargetSystem); err != nil {
		return err
	}

	props := []string{xfceDefaultProperty}
	if out, err := commandOutput("xfconf-query", "--channel", "xfce4-desktop", "--list"); err == nil {
		if found := xfceImageProperties(out); len(found) > 0 {
			props = found
		}
	}

	for _, prop := range props {
		if err := runCommand("xfconf-query", "--channel", "xfce4-desktop", "--property", prop, "--set", path); err != nil {
			return err
		}
	}
	return nil
}

// xfceImageProperties picks the per-monitor last-image keys from a property listing.
func xfceImageProperties(listing string) []string {
	var props []string
	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "/backdrop/") && strings.HasSuffix(line, "/last-image") {
			props = append(props, line)
		}
	}
	return props
}

// swayStrategy sets the background of every output through swaymsg.
type swayStrategy struct{}

func (swayStrategy) Name() string {
	return "sway"
}

func (swayStrategy) Apply(path string, target Target, _ bool) error {
	if err := checkTarget(target, TargetSystem); err != nil {
		return err
	}
	return runCommand("swaymsg", "output", "*", "bg", path, "fill")
}
