package decoder

import (
	"sync"

	"github.com/marinelog/decoder/internal/models"
)

// Input is one named buffer queued for batch decoding. Name is used as
// the filename hint for format detection.
type Input struct {
	Name string
	Data []byte
}

// BatchResult pairs one input with its decode outcome.
type BatchResult struct {
	Name     string
	Result   *models.ParseResult
	Warnings []*models.DecodeWarning
}

// DecodeAll decodes every input on a small worker pool and returns the
// results in input order. workers <= 0 selects the default pool size.
func (r *Registry) DecodeAll(inputs []Input, workers int) []BatchResult {
	if len(inputs) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 4
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	results := make([]BatchResult, len(inputs))
	jobs := make(chan int, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				in := inputs[i]
				res, warnings := r.Decode(in.Data, in.Name)
				results[i] = BatchResult{Name: in.Name, Result: res, Warnings: warnings}
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// DecodeAll decodes every input using the default registry.
func DecodeAll(inputs []Input, workers int) []BatchResult {
	return DefaultRegistry().DecodeAll(inputs, workers)
}
