package source

import (
	"bytes"
	"io"

	j "github.com/goccy/go-json"
	set "github.com/hashicorp/go-set/v2"

	"github.com/reoring/adtmatch"
	"github.com/reoring/adtmatch/i18n"
)

// keyFrame tracks one open JSON container while scanning tokens.
type keyFrame struct {
	object       bool
	keys         *set.Set[string]
	expectingKey bool
	key          string
	next         int
	at           adtmatch.PathRef
}

// DuplicateKeys scans a JSON document and reports every object key that
// appears twice in the same object. Decoders keep the last occurrence
// silently, so LoadJSON and DecodeValueJSON run this first.
func DuplicateKeys(data []byte) (adtmatch.Issues, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var iss adtmatch.Issues
	var stack []*keyFrame
	child := func() adtmatch.PathRef {
		if len(stack) == 0 {
			return adtmatch.RootPath()
		}
		top := stack[len(stack)-1]
		if top.object {
			return top.at.Field(top.key)
		}
		return top.at.Index(top.next)
	}
	// done marks the current value of the enclosing container as complete.
	done := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.object {
			top.expectingKey = true
		} else {
			top.next++
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return iss, nil
		}
		if err != nil {
			return iss, err
		}
		switch v := tok.(type) {
		case j.Delim:
			switch v {
			case '{':
				stack = append(stack, &keyFrame{object: true, keys: set.New[string](4), expectingKey: true, at: child()})
			case '[':
				stack = append(stack, &keyFrame{at: child()})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				done()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := stack[n-1]
				if !top.keys.Insert(v) {
					it := top.at.Field(v).Issue(adtmatch.CodeDuplicateKey, i18n.T(adtmatch.CodeDuplicateKey, nil), "key", v)
					it.Hint = "key " + v + " is declared more than once"
					iss = adtmatch.AppendIssues(iss, it)
				}
				top.key = v
				top.expectingKey = false
				continue
			}
			done()
		default:
			done()
		}
	}
}

// rejectDuplicateKeys fails on duplicate keys and leaves syntax errors to
// the real decoder, which reports them with better positions.
func rejectDuplicateKeys(data []byte) error {
	iss, err := DuplicateKeys(data)
	if err == nil && len(iss) > 0 {
		return iss
	}
	return nil
}
