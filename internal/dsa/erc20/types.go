package erc20

const (
	// NativeApproveMessage is returned by Approve for the native currency.
	NativeApproveMessage = "ETH does not require approve."
	// NativeAllowanceMessage is returned by GetAllowance for the native currency.
	NativeAllowanceMessage = "ETH does not have allowance."
)

const (
	OperationTransfer  = "transfer"
	OperationApprove   = "approve"
	OperationAllowance = "allowance"
)

// TransferRequest moves Amount of Token to To.
type TransferRequest struct {
	// Token is a symbol ("dai") or a contract address. "eth" or the native
	// placeholder address selects a plain value transfer.
	Token string `json:"token"`
	// Amount is a decimal in token units, e.g. "1.5". For the native
	// currency it is an integer amount of wei.
	Amount string `json:"amount"`
	// To defaults to the managed instance address.
	To string `json:"to,omitempty"`
	// From defaults to the unlocked account.
	From string `json:"from,omitempty"`
	// GasPrice in wei, decimal or 0x hex. Empty selects EIP-1559 pricing.
	GasPrice string `json:"gasPrice,omitempty"`
	// Gas limit. Zero asks the node for an estimate.
	Gas uint64 `json:"gas,omitempty"`
}

// ApprovalRequest lets spender To pull Amount of Token from From.
type ApprovalRequest struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
	// To is the spender and is required.
	To       string `json:"to"`
	From     string `json:"from,omitempty"`
	GasPrice string `json:"gasPrice,omitempty"`
	Gas      uint64 `json:"gas,omitempty"`
	// ConvertAmount treats Amount as token units and converts it with the
	// token decimals. By default Amount is a raw base-unit integer.
	ConvertAmount bool `json:"convertAmount,omitempty"`
}

// AllowanceQuery reads how much spender To may pull from owner From.
type AllowanceQuery struct {
	Token string `json:"token"`
	To    string `json:"to"`
	From  string `json:"from,omitempty"`
}
