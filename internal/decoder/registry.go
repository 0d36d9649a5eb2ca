package decoder

import (
	"fmt"
	"strings"
	"sync"

	"github.com/marinelog/decoder/internal/models"
)

// Registry holds the vendor decoders and routes buffers to them.
type Registry struct {
	decoders map[string]Decoder // keyed by format token
	ordered  []Decoder
}

// NewRegistry creates a registry with all vendor decoders and the built-in
// symbol table.
func NewRegistry() *Registry {
	return NewRegistryWithSymbols(DefaultSymbolTable())
}

// NewRegistryWithSymbols creates a registry whose binary decoders resolve
// icon codes through the given symbol table.
func NewRegistryWithSymbols(symbols *SymbolTable) *Registry {
	r := &Registry{decoders: make(map[string]Decoder)}
	r.register(newLowranceDecoder(symbols))
	r.register(newGarminGPXDecoder())
	r.register(newGarminADMDecoder())
	r.register(newHumminbirdDecoder(symbols))
	r.register(newRaymarineDecoder(symbols))
	return r
}

func (r *Registry) register(d Decoder) {
	r.ordered = append(r.ordered, d)
	for _, ext := range d.Extensions() {
		r.decoders[ext] = d
	}
}

// DecoderFor returns the decoder owning a format token.
func (r *Registry) DecoderFor(formatType string) (Decoder, bool) {
	d, ok := r.decoders[formatType]
	return d, ok
}

// DecoderByName returns a decoder by its short name.
func (r *Registry) DecoderByName(name string) (Decoder, bool) {
	name = strings.ToLower(name)
	for _, d := range r.ordered {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// Decode detects the format of data and runs the matching decoder behind a
// recover boundary, so a decoder fault degrades to a failed ParseResult
// instead of a panic crossing to the caller.
func (r *Registry) Decode(data []byte, filenameHint string) (*models.ParseResult, []*models.DecodeWarning) {
	fi := Identify(data, filenameHint)
	dec, ok := r.decoders[fi.FormatType]
	if !ok {
		dec = r.decoders[formatGPX]
	}
	return safeDecode(dec, data, filenameHint, fallbackMetadata(fi, filenameHint, int64(len(data))))
}

// fallbackMetadata is attached when a decoder fails before producing a
// result of its own; a ParseResult always carries file metadata.
func fallbackMetadata(fi FormatInfo, filename string, size int64) models.FileMetadata {
	return models.FileMetadata{
		FileName: filename,
		Format:   formatLabel(fi.FormatType),
		ByteSize: size,
		Device:   fi.Device,
	}
}

func safeDecode(dec Decoder, data []byte, filename string, fallback models.FileMetadata) (result *models.ParseResult, warnings []*models.DecodeWarning) {
	defer func() {
		if rec := recover(); rec != nil {
			result = models.NewParseResult(fallback)
			result.Fail(fmt.Sprintf("%v", rec))
			warnings = nil
		}
	}()
	return dec.Decode(data, filename)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry built with the default symbol
// table.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
