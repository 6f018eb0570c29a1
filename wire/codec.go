package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// canonicalEncMode mirrors chain's canonical CBOR settings (RFC 7049
// Canonical CBOR, epoch-tagged timestamps): a Template or NewBlock
// payload embeds a chain.Block, whose encoding must match byte-for-byte
// what the receiving node would compute itself.
var canonicalEncMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeUnix
	opts.TimeTag = cbor.EncTagRequired
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: building canonical CBOR encoder: %v", err))
	}
	return mode
}()

var decMode = func() cbor.DecMode {
	opts := cbor.DecOptions{TimeTag: cbor.DecTagOptional}
	mode, err := opts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("wire: building CBOR decoder: %v", err))
	}
	return mode
}()

// envelope is the tagged-union wrapper every frame carries: a Tag
// discriminant plus the tag-specific payload, deferred-decoded via
// cbor.RawMessage once the tag is known.
type envelope struct {
	Tag     Tag             `cbor:"1,keyasint"`
	Payload cbor.RawMessage `cbor:"2,keyasint"`
}

func encodeEnvelope(msg Message) ([]byte, error) {
	payload, err := canonicalEncMode.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("wire: encode payload: %w", err)
	}
	env := envelope{Tag: msg.tag(), Payload: payload}
	data, err := canonicalEncMode.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("wire: encode envelope: %w", err)
	}
	return data, nil
}

func decodeEnvelope(data []byte) (Message, error) {
	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("wire: decode envelope: %w", err)
	}

	var msg Message
	switch env.Tag {
	case TagFetchUTXOs:
		msg = new(FetchUTXOs)
	case TagUTXOs:
		msg = new(UTXOs)
	case TagSubmitTransaction:
		msg = new(SubmitTransaction)
	case TagNewTransaction:
		msg = new(NewTransaction)
	case TagFetchTemplate:
		msg = new(FetchTemplate)
	case TagTemplate:
		msg = new(Template)
	case TagValidateTemplate:
		msg = new(ValidateTemplate)
	case TagTemplateValidity:
		msg = new(TemplateValidity)
	case TagSubmitTemplate:
		msg = new(SubmitTemplate)
	case TagNewBlock:
		msg = new(NewBlock)
	case TagDiscoverNodes:
		msg = new(DiscoverNodes)
	case TagNodeList:
		msg = new(NodeList)
	case TagAskDifference:
		msg = new(AskDifference)
	case TagDifference:
		msg = new(Difference)
	case TagFetchBlock:
		msg = new(FetchBlock)
	default:
		return nil, fmt.Errorf("wire: unknown message tag %d", env.Tag)
	}

	if err := decMode.Unmarshal(env.Payload, msg); err != nil {
		return nil, fmt.Errorf("wire: decode %s payload: %w", env.Tag, err)
	}
	return dereference(msg), nil
}

// dereference turns the *T our switch allocates back into the T value the
// rest of the package works with, so callers type-switch on value receivers
// consistently with the tag() methods defined in message.go.
func dereference(msg Message) Message {
	switch m := msg.(type) {
	case *FetchUTXOs:
		return *m
	case *UTXOs:
		return *m
	case *SubmitTransaction:
		return *m
	case *NewTransaction:
		return *m
	case *FetchTemplate:
		return *m
	case *Template:
		return *m
	case *ValidateTemplate:
		return *m
	case *TemplateValidity:
		return *m
	case *SubmitTemplate:
		return *m
	case *NewBlock:
		return *m
	case *DiscoverNodes:
		return *m
	case *NodeList:
		return *m
	case *AskDifference:
		return *m
	case *Difference:
		return *m
	case *FetchBlock:
		return *m
	default:
		return msg
	}
}
