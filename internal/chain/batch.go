package chain

import "fmt"

// SplitBatches splits ids into consecutive batches of at most batchSize.
func SplitBatches(ids []string, batchSize int) ([][]string, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}

	batches := make([][]string, 0, (len(ids)+batchSize-1)/batchSize)
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches, nil
}
