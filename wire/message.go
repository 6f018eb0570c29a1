// Package wire implements the length-prefixed CBOR framing of the closed
// node/peer/miner message set (spec §4.12, §6).
package wire

import "github.com/duniacoin/duniacoin/chain"

// Tag identifies a message's wire type. The set is closed: an unknown tag
// terminates the connection (spec §6).
type Tag uint8

const (
	TagFetchUTXOs Tag = iota
	TagUTXOs
	TagSubmitTransaction
	TagNewTransaction
	TagFetchTemplate
	TagTemplate
	TagValidateTemplate
	TagTemplateValidity
	TagSubmitTemplate
	TagNewBlock
	TagDiscoverNodes
	TagNodeList
	TagAskDifference
	TagDifference
	TagFetchBlock
)

func (t Tag) String() string {
	switch t {
	case TagFetchUTXOs:
		return "FetchUTXOs"
	case TagUTXOs:
		return "UTXOs"
	case TagSubmitTransaction:
		return "SubmitTransaction"
	case TagNewTransaction:
		return "NewTransaction"
	case TagFetchTemplate:
		return "FetchTemplate"
	case TagTemplate:
		return "Template"
	case TagValidateTemplate:
		return "ValidateTemplate"
	case TagTemplateValidity:
		return "TemplateValidity"
	case TagSubmitTemplate:
		return "SubmitTemplate"
	case TagNewBlock:
		return "NewBlock"
	case TagDiscoverNodes:
		return "DiscoverNodes"
	case TagNodeList:
		return "NodeList"
	case TagAskDifference:
		return "AskDifference"
	case TagDifference:
		return "Difference"
	case TagFetchBlock:
		return "FetchBlock"
	default:
		return "Unknown"
	}
}

// Message is any value in the closed wire message set.
type Message interface {
	tag() Tag
}

// FetchUTXOs: wallet -> node. Reply is UTXOs.
type FetchUTXOs struct {
	PubKey chain.PublicKey `cbor:"1,keyasint"`
}

func (FetchUTXOs) tag() Tag { return TagFetchUTXOs }

// UTXOWireEntry mirrors chain.UTXOEntry for wire transport.
type UTXOWireEntry struct {
	Marked bool                    `cbor:"1,keyasint"`
	Output chain.TransactionOutput `cbor:"2,keyasint"`
}

// UTXOs: node -> wallet, in reply to FetchUTXOs.
type UTXOs struct {
	Entries []UTXOWireEntry `cbor:"1,keyasint"`
}

func (UTXOs) tag() Tag { return TagUTXOs }

// SubmitTransaction: wallet -> node. No reply.
type SubmitTransaction struct {
	Tx *chain.Transaction `cbor:"1,keyasint"`
}

func (SubmitTransaction) tag() Tag { return TagSubmitTransaction }

// NewTransaction: peer -> node gossip. No reply.
type NewTransaction struct {
	Tx *chain.Transaction `cbor:"1,keyasint"`
}

func (NewTransaction) tag() Tag { return TagNewTransaction }

// FetchTemplate: miner -> node. Reply is Template.
type FetchTemplate struct {
	PubKey chain.PublicKey `cbor:"1,keyasint"`
}

func (FetchTemplate) tag() Tag { return TagFetchTemplate }

// Template: node -> miner, in reply to FetchTemplate.
type Template struct {
	Block *chain.Block `cbor:"1,keyasint"`
}

func (Template) tag() Tag { return TagTemplate }

// ValidateTemplate: miner -> node. Reply is TemplateValidity.
type ValidateTemplate struct {
	Block *chain.Block `cbor:"1,keyasint"`
}

func (ValidateTemplate) tag() Tag { return TagValidateTemplate }

// TemplateValidity: node -> miner, in reply to ValidateTemplate.
type TemplateValidity struct {
	Valid bool `cbor:"1,keyasint"`
}

func (TemplateValidity) tag() Tag { return TagTemplateValidity }

// SubmitTemplate: miner -> node. No reply.
type SubmitTemplate struct {
	Block *chain.Block `cbor:"1,keyasint"`
}

func (SubmitTemplate) tag() Tag { return TagSubmitTemplate }

// NewBlock: peer -> node gossip, and the node -> node reply to FetchBlock.
type NewBlock struct {
	Block *chain.Block `cbor:"1,keyasint"`
}

func (NewBlock) tag() Tag { return TagNewBlock }

// DiscoverNodes: node -> node. Reply is NodeList.
type DiscoverNodes struct{}

func (DiscoverNodes) tag() Tag { return TagDiscoverNodes }

// NodeList: node -> node, in reply to DiscoverNodes.
type NodeList struct {
	Addrs []string `cbor:"1,keyasint"`
}

func (NodeList) tag() Tag { return TagNodeList }

// AskDifference: node -> node. Reply is Difference.
type AskDifference struct {
	Height int32 `cbor:"1,keyasint"`
}

func (AskDifference) tag() Tag { return TagAskDifference }

// Difference: node -> node, in reply to AskDifference.
type Difference struct {
	Delta int32 `cbor:"1,keyasint"`
}

func (Difference) tag() Tag { return TagDifference }

// FetchBlock: node -> node. Reply is NewBlock if i < height, otherwise the
// node closes the connection without replying.
type FetchBlock struct {
	Index int32 `cbor:"1,keyasint"`
}

func (FetchBlock) tag() Tag { return TagFetchBlock }
