package models

// 内置数据的固定标识，建库与升级时按 Id 幂等写入
var (
	SystemEnvelopeGroupID = MustParseGUID("00000000-0000-0000-0000-000000000001")
	IncomeEnvelopeGroupID = MustParseGUID("00000000-0000-0000-0000-000000000002")

	BufferEnvelopeID          = MustParseGUID("00000000-0000-0000-0001-000000000001")
	IncomeEnvelopeID          = MustParseGUID("00000000-0000-0000-0001-000000000002")
	IgnoredEnvelopeID         = MustParseGUID("00000000-0000-0000-0001-000000000003")
	StartingBalanceEnvelopeID = MustParseGUID("00000000-0000-0000-0001-000000000004")

	StartingBalancePayeeID = MustParseGUID("00000000-0000-0000-0002-000000000001")
)

// 内置数据名称
const (
	SystemGroupName     = "System"
	IncomeGroupName     = "Income"
	BufferName          = "Buffer"
	IncomeName          = "Income"
	IgnoredName         = "Ignored"
	StartingBalanceName = "Starting Balance"
)

// SeedEnvelopeGroups 内置信封分组
func SeedEnvelopeGroups() []EnvelopeGroup {
	return []EnvelopeGroup{
		{Model: Model{ID: SystemEnvelopeGroupID}, Description: SystemGroupName},
		{Model: Model{ID: IncomeEnvelopeGroupID}, Description: IncomeGroupName},
	}
}

// SeedEnvelopes 内置信封，均不参与超支提醒
func SeedEnvelopes() []Envelope {
	return []Envelope{
		{Model: Model{ID: BufferEnvelopeID}, Description: BufferName, IgnoreOverspend: true, EnvelopeGroupID: IncomeEnvelopeGroupID},
		{Model: Model{ID: IncomeEnvelopeID}, Description: IncomeName, IgnoreOverspend: true, EnvelopeGroupID: IncomeEnvelopeGroupID},
		{Model: Model{ID: IgnoredEnvelopeID}, Description: IgnoredName, IgnoreOverspend: true, EnvelopeGroupID: SystemEnvelopeGroupID},
		{Model: Model{ID: StartingBalanceEnvelopeID}, Description: StartingBalanceName, IgnoreOverspend: true, EnvelopeGroupID: SystemEnvelopeGroupID},
	}
}

// SeedPayees 内置收付款方
func SeedPayees() []Payee {
	return []Payee{
		{Model: Model{ID: StartingBalancePayeeID}, Description: StartingBalanceName},
	}
}
