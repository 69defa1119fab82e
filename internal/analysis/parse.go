package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/abhisek/empathiz/internal/llm"
)

// ParseResult validates raw against PayloadSchema and decodes it, keeping
// score and reasoning keys in payload order. Duplicate keys are kept; the
// last occurrence wins wherever keys are matched. Fields other than scores
// and reasoning are ignored.
func ParseResult(raw []byte) (*Result, error) {
	payload := json.RawMessage(bytes.Clone(raw))

	if err := llm.Validate(PayloadSchema, payload); err != nil {
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) {
			return nil, &PayloadError{Raw: payload, Err: inv.Err}
		}
		return nil, &PayloadError{Raw: payload, Err: err}
	}

	r := &Result{Raw: payload}
	if err := decodeOrdered(payload, r); err != nil {
		return nil, &PayloadError{Raw: payload, Err: err}
	}
	return r, nil
}

func decodeOrdered(raw []byte, r *Result) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}
		switch key {
		case "scores":
			r.Scores = r.Scores[:0]
			err = readObject(dec, func(k string) error {
				var n json.Number
				if err := dec.Decode(&n); err != nil {
					return fmt.Errorf("score %q: %w", k, err)
				}
				v, err := n.Float64()
				if err != nil {
					return fmt.Errorf("score %q: %w", k, err)
				}
				r.Scores = append(r.Scores, Score{Key: k, Value: v})
				return nil
			})
		case "reasoning":
			r.Reasoning = r.Reasoning[:0]
			err = readObject(dec, func(k string) error {
				var s string
				if err := dec.Decode(&s); err != nil {
					return fmt.Errorf("reasoning %q: %w", k, err)
				}
				r.Reasoning = append(r.Reasoning, Reason{Key: k, Text: s})
				return nil
			})
		default:
			var skip json.RawMessage
			err = dec.Decode(&skip)
		}
		if err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func readObject(dec *json.Decoder, value func(key string) error) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}
		if err := value(key); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
