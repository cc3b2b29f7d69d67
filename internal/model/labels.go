package model

const (
	// FieldPubKey is the JSON field carrying a validator's public key.
	FieldPubKey = "pubkey"

	// FieldADNLAddr is the JSON field carrying a validator's ADNL address.
	FieldADNLAddr = "adnl_addr"

	// ElectionsValidationCycles is the elections service endpoint listing validation cycles.
	ElectionsValidationCycles = "getValidationCycles"

	// ElectionsReturnParticipants asks the elections service to include the roster.
	ElectionsReturnParticipants = "return_participants"

	// LiteValidatorsLoad is the JSON-RPC method returning per-validator load for a time range.
	LiteValidatorsLoad = "ton_validatorsLoad"
)
