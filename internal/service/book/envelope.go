package book

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/heartmarshall/novelnest-inventory/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// encodeEvent renders the wire envelope. The bytes are stored in the outbox
// and published unchanged, so every redelivery is byte-identical.
func encodeEvent(ev domain.BookEvent) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", ev.EventType, err)
	}
	return payload, nil
}
