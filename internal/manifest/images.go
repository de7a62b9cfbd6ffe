package manifest

import (
	"fmt"
	"strings"
)

// Distro identifies the OS family of an image, which determines how its
// download URL and local filename are derived.
const (
	DistroDebian  = "debian"
	DistroUbuntu  = "ubuntu"
	DistroTalos   = "talos"
	DistroWindows = "windows"
)

// URL templates per distro. Talos images come from the image factory so the
// schematic (extension set) is part of the URL.
const (
	debianURLTemplate      = "https://cloud.debian.org/images/cloud/%s/latest/debian-%s-genericcloud-%s.qcow2"
	ubuntuQcow2URLTemplate = "https://cloud-images.ubuntu.com/%s/current/%s-server-cloudimg-%s.img"
	ubuntuLXCURLTemplate   = "https://images.linuxcontainers.org/images/ubuntu/%s/%s/cloud/%s/rootfs.tar.xz"
	talosURLTemplate       = "https://factory.talos.dev/image/%s/v%s/nocloud-%s.%s"
	virtioStableURL        = "https://fedorapeople.org/groups/virt/virtio-win/direct-downloads/stable-virtio/virtio-win.iso"
)

// debianReleaseNumbers maps Debian codenames to version numbers used in
// cloud image filenames.
var debianReleaseNumbers = map[string]string{
	"bookworm": "12",
	"trixie":   "13",
}

// extensionTypes maps file extensions to hypervisor content types.
var extensionTypes = map[string]string{
	"iso":     "iso",
	"img":     "import",
	"qcow2":   "import",
	"raw":     "import",
	"raw.xz":  "import",
	"vmdk":    "import",
	"tar.xz":  "vztmpl",
	"tar.gz":  "vztmpl",
	"tar.zst": "vztmpl",
}

// Image describes one OS image to stage on a hypervisor node. The download
// URL, local filename and content type are derived, not authored.
type Image struct {
	Distro          string `yaml:"distro" mapstructure:"distro"`
	Release         string `yaml:"release" mapstructure:"release"`
	Arch            string `yaml:"arch" mapstructure:"arch"`
	Extension       string `yaml:"extension" mapstructure:"extension"`
	Schematic       string `yaml:"schematic" mapstructure:"schematic"`
	BuildDate       string `yaml:"build_date" mapstructure:"build_date"`
	TargetNode      string `yaml:"target_node" mapstructure:"target_node"`
	TargetDatastore string `yaml:"target_datastore" mapstructure:"target_datastore"`
}

// Type maps the image extension to the hypervisor content type
// (iso, import or vztmpl). Unknown extensions map to "unknown" and are
// rejected by the validator.
func (i Image) Type() string {
	if t, ok := extensionTypes[strings.ToLower(i.Extension)]; ok {
		return t
	}
	return "unknown"
}

// EffectiveArch returns the image architecture, defaulting to amd64.
func (i Image) EffectiveArch() string {
	if i.Arch != "" {
		return i.Arch
	}
	return "amd64"
}

// ResolvedRelease resolves the release field through the versions section.
// A release of the form "versions.<key>" is an indirection into that
// section; anything else is returned verbatim. Unknown indirections resolve
// to the raw value so the validator can report them with context.
func (i Image) ResolvedRelease(versions map[string]string) string {
	if key, ok := strings.CutPrefix(i.Release, "versions."); ok {
		if v, found := versions[key]; found {
			return v
		}
	}
	return i.Release
}

// URL derives the download URL for the image. Images that are staged
// manually (Windows installer ISOs) derive an empty URL.
func (i Image) URL(versions map[string]string) string {
	release := i.ResolvedRelease(versions)
	arch := i.EffectiveArch()

	switch i.Distro {
	case DistroDebian:
		num := release
		if n, ok := debianReleaseNumbers[release]; ok {
			num = n
		}
		return fmt.Sprintf(debianURLTemplate, release, num, arch)
	case DistroUbuntu:
		if i.Type() == "vztmpl" {
			return fmt.Sprintf(ubuntuLXCURLTemplate, release, arch, i.BuildDate)
		}
		return fmt.Sprintf(ubuntuQcow2URLTemplate, release, release, arch)
	case DistroTalos:
		return fmt.Sprintf(talosURLTemplate, i.Schematic, release, arch, i.Extension)
	case DistroWindows:
		if strings.Contains(strings.ToLower(i.Extension), "iso") && i.Release == "virtio" {
			return virtioStableURL
		}
		// Installer ISOs are staged manually.
		return ""
	}
	return ""
}

// Filename derives the local filename the image is stored under.
func (i Image) Filename(versions map[string]string) string {
	release := i.ResolvedRelease(versions)
	arch := i.EffectiveArch()

	switch i.Distro {
	case DistroTalos:
		return fmt.Sprintf("talos-%s-nocloud-%s.%s", release, arch, i.Extension)
	case DistroUbuntu:
		if i.Type() == "vztmpl" {
			date := strings.NewReplacer(":", "", "_", "").Replace(i.BuildDate)
			return fmt.Sprintf("ubuntu-%s-cloud-%s-%s.%s", release, arch, date, i.Extension)
		}
		return fmt.Sprintf("ubuntu-%s-server-cloudimg-%s.%s", release, arch, i.Extension)
	case DistroDebian:
		num := release
		if n, ok := debianReleaseNumbers[release]; ok {
			num = n
		}
		return fmt.Sprintf("debian-%s-genericcloud-%s.%s", num, arch, i.Extension)
	}
	return fmt.Sprintf("%s-%s-%s.%s", i.Distro, release, arch, i.Extension)
}
