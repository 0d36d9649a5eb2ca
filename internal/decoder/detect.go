package decoder

import (
	"path/filepath"
	"strings"

	"github.com/marinelog/decoder/internal/models"
)

// Format tokens. Tokens double as the canonical file extension.
const (
	formatSLG = "slg"
	formatSL2 = "sl2"
	formatSL3 = "sl3"
	formatUSR = "usr"
	formatGPX = "gpx"
	formatADM = "adm"
	formatDAT = "dat"
	formatSON = "son"
	formatFSH = "fsh"
)

// FormatInfo identifies the vendor and concrete format of a buffer.
type FormatInfo struct {
	Device     models.Device `json:"device"`
	FormatType string        `json:"formatType"`
	Extension  string        `json:"extension"`
}

// knownFormats lists every supported format in canonical vendor order. It is
// the single source for the extension table and the enumeration helpers.
var knownFormats = []FormatInfo{
	{Device: models.DeviceLowrance, FormatType: formatSLG, Extension: formatSLG},
	{Device: models.DeviceLowrance, FormatType: formatSL2, Extension: formatSL2},
	{Device: models.DeviceLowrance, FormatType: formatSL3, Extension: formatSL3},
	{Device: models.DeviceLowrance, FormatType: formatUSR, Extension: formatUSR},
	{Device: models.DeviceGarmin, FormatType: formatGPX, Extension: formatGPX},
	{Device: models.DeviceGarmin, FormatType: formatADM, Extension: formatADM},
	{Device: models.DeviceHumminbird, FormatType: formatDAT, Extension: formatDAT},
	{Device: models.DeviceHumminbird, FormatType: formatSON, Extension: formatSON},
	{Device: models.DeviceRaymarine, FormatType: formatFSH, Extension: formatFSH},
}

// formatLabels maps format tokens to the display label used in FileMetadata.
var formatLabels = map[string]string{
	formatSLG: "Lowrance SLG Sonar Log",
	formatSL2: "Lowrance SL2 Sonar Log",
	formatSL3: "Lowrance SL3 Sonar Log",
	formatUSR: "Lowrance USR Archive",
	formatGPX: "Garmin GPX",
	formatADM: "Garmin ADM Archive",
	formatDAT: "Humminbird DAT",
	formatSON: "Humminbird SON Sonar Log",
	formatFSH: "Raymarine FSH Archive",
}

func formatLabel(formatType string) string {
	if label, ok := formatLabels[formatType]; ok {
		return label
	}
	return "Unknown"
}

// Identify resolves a buffer to a vendor and format. The filename extension
// is authoritative when known, because vendors reuse ambiguous binary
// layouts; content sniffing runs only without an extension match, and an
// unidentifiable buffer falls back to Garmin GPX, the most tolerant decoder.
// Pure; never errors.
func Identify(data []byte, filenameHint string) FormatInfo {
	if fi, ok := identifyByExtension(filenameHint); ok {
		return fi
	}
	if fi, ok := identifyBySignature(data); ok {
		return fi
	}
	return formatInfoFor(formatGPX)
}

// IsSupported reports whether the buffer matches a known extension or
// signature. The GPX fallback does not count as a match.
func IsSupported(data []byte, filenameHint string) bool {
	if _, ok := identifyByExtension(filenameHint); ok {
		return true
	}
	_, ok := identifyBySignature(data)
	return ok
}

// SupportedExtensions returns every supported extension in canonical vendor
// order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(knownFormats))
	for _, fi := range knownFormats {
		exts = append(exts, fi.Extension)
	}
	return exts
}

// ExtensionsForDevice returns the extensions belonging to one vendor, in
// canonical order.
func ExtensionsForDevice(device models.Device) []string {
	exts := make([]string, 0, 4)
	for _, fi := range knownFormats {
		if fi.Device == device {
			exts = append(exts, fi.Extension)
		}
	}
	return exts
}

// AcceptString builds the comma-separated dotted extension list used by
// file-picker accept attributes.
func AcceptString() string {
	exts := SupportedExtensions()
	parts := make([]string, len(exts))
	for i, ext := range exts {
		parts[i] = "." + ext
	}
	return strings.Join(parts, ",")
}

func formatInfoFor(formatType string) FormatInfo {
	for _, fi := range knownFormats {
		if fi.FormatType == formatType {
			return fi
		}
	}
	return FormatInfo{Device: models.DeviceGarmin, FormatType: formatGPX, Extension: formatGPX}
}

func identifyByExtension(filenameHint string) (FormatInfo, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filenameHint), "."))
	if ext == "" {
		return FormatInfo{}, false
	}
	for _, fi := range knownFormats {
		if fi.Extension == ext {
			return fi, true
		}
	}
	return FormatInfo{}, false
}

func identifyBySignature(data []byte) (FormatInfo, bool) {
	if len(data) == 0 {
		return FormatInfo{}, false
	}

	// Text probe: XML markers in the first 16 bytes mean GPX.
	head := data
	if len(head) > 16 {
		head = head[:16]
	}
	if text := string(head); strings.Contains(text, "<?xml") || strings.Contains(text, "<gpx") {
		return formatInfoFor(formatGPX), true
	}

	if len(data) >= 6 && string(data[:6]) == admMagic {
		return formatInfoFor(formatADM), true
	}
	if len(data) >= 3 {
		switch string(data[:3]) {
		case formatSLG:
			return formatInfoFor(formatSLG), true
		case formatSL2:
			return formatInfoFor(formatSL2), true
		case formatSL3:
			return formatInfoFor(formatSL3), true
		case humminbirdMagic:
			return formatInfoFor(formatDAT), true
		case sonMagic:
			return formatInfoFor(formatSON), true
		case fshMagic:
			return formatInfoFor(formatFSH), true
		}
	}
	return FormatInfo{}, false
}
