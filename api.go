package ledger

// API bundles a fixed ProtocolParameters snapshot with the derived providers
// (time, mana decay) every builder and validator call needs, mirroring the
// teacher's api.API but without its reflection-based serix encode/decode
// surface (see DESIGN.md for why that surface was not ported).
type API interface {
	// ProtocolParameters returns the protocol parameters this API was built from.
	ProtocolParameters() *ProtocolParameters
	// TimeProvider returns the slot/epoch time provider derived from the protocol parameters.
	TimeProvider() *TimeProvider
	// ManaDecayProvider returns the mana decay provider derived from the protocol parameters.
	ManaDecayProvider() *ManaDecayProvider
	// StorageScoreStructure returns the storage score parameters.
	StorageScoreStructure() *StorageScoreStructure
	// WorkScoreParameters returns the work score parameters.
	WorkScoreParameters() *WorkScoreParameters
	// MaxInputCount and MinInputCount bound the number of inputs a transaction may have.
	MaxInputCount() uint16
	MinInputCount() uint16
	// MaxOutputCount and MinOutputCount bound the number of outputs a transaction may have.
	MaxOutputCount() uint16
	MinOutputCount() uint16
}

// protocolAPI is the sole implementation of API, wrapping a ProtocolParameters value.
type protocolAPI struct {
	params *ProtocolParameters
}

// V3API returns an API backed by params, named after the protocol version the
// teacher's api_v3_protocol_parameters.go targets.
func V3API(params *ProtocolParameters) API {
	return &protocolAPI{params: params}
}

func (a *protocolAPI) ProtocolParameters() *ProtocolParameters { return a.params }
func (a *protocolAPI) TimeProvider() *TimeProvider             { return a.params.TimeProvider() }
func (a *protocolAPI) ManaDecayProvider() *ManaDecayProvider   { return a.params.ManaDecayProvider() }
func (a *protocolAPI) StorageScoreStructure() *StorageScoreStructure {
	return &a.params.StorageScoreStructure
}
func (a *protocolAPI) WorkScoreParameters() *WorkScoreParameters { return &a.params.WorkScoreParameters }
func (a *protocolAPI) MaxInputCount() uint16                     { return a.params.MaxInputCount }
func (a *protocolAPI) MinInputCount() uint16                     { return a.params.MinInputCount }
func (a *protocolAPI) MaxOutputCount() uint16                    { return a.params.MaxOutputCount }
func (a *protocolAPI) MinOutputCount() uint16                    { return a.params.MinOutputCount }
