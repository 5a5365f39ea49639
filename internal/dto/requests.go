package dto

// ==================== Admin DTOs ====================

// InitRequest assigns the bridge roles
type InitRequest struct {
	Admin        string `json:"admin" binding:"required"`
	Maker        string `json:"maker" binding:"required"`
	Checker      string `json:"checker" binding:"required"`
	FeeCollector string `json:"fee_collector" binding:"required"`
}

// FeeRateRequest fee rate in basis points of 10000
type FeeRateRequest struct {
	FeeRate *int64 `json:"fee_rate" binding:"required"`
}

// RewardConfRequest farm reward of one coin
type RewardConfRequest struct {
	Contract   string `json:"contract" binding:"required"`
	LandID     uint64 `json:"land_id"`
	Coin       string `json:"coin" binding:"required"`
	UnitReward string `json:"unit_reward" binding:"required"` // e.g. "0.5000 APL"
}

// ==================== Registry DTOs ====================

// AddChainRequest registers an external chain
type AddChainRequest struct {
	Chain            string `json:"chain" binding:"required"`
	BaseChain        string `json:"base_chain" binding:"required"`
	CommonXinAccount string `json:"common_xin_account"`
}

// AddCoinRequest registers a coin
type AddCoinRequest struct {
	Symbol string `json:"symbol" binding:"required"` // CODE,precision
}

// AddChainCoinRequest enables a coin on a chain
type AddChainCoinRequest struct {
	Chain string `json:"chain" binding:"required"`
	Coin  string `json:"coin" binding:"required"` // CODE,precision
	Fee   string `json:"fee" binding:"required"`  // fixed fee, e.g. "0.00050000 BTC"
}

// ==================== Address DTOs ====================

// RequestAddressRequest asks for a deposit address slot
type RequestAddressRequest struct {
	Account         string `json:"account" binding:"required"`
	BaseChain       string `json:"base_chain" binding:"required"`
	MulsignWalletID uint64 `json:"mulsign_wallet_id"`
}

// AssignAddressRequest binds an external address to a slot
type AssignAddressRequest struct {
	Account         string `json:"account" binding:"required"`
	BaseChain       string `json:"base_chain" binding:"required"`
	MulsignWalletID uint64 `json:"mulsign_wallet_id"`
	XinTo           string `json:"xin_to"`
}

// ==================== Order DTOs ====================

// CreateXinOrderRequest records an external deposit
type CreateXinOrderRequest struct {
	To       string `json:"to" binding:"required"`
	Chain    string `json:"chain" binding:"required"`
	Coin     string `json:"coin" binding:"required"` // CODE,precision
	TxID     string `json:"txid"`
	XinFrom  string `json:"xin_from"`
	XinTo    string `json:"xin_to"`
	Quantity string `json:"quantity" binding:"required"`
}

// CancelOrderRequest closes an order
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// MarkSentRequest records the external payout
type MarkSentRequest struct {
	TxID     string `json:"txid"`
	XoutFrom string `json:"xout_from"`
}

// ==================== Ledger DTOs ====================

// TransferRequest moves funds from the caller
type TransferRequest struct {
	To       string `json:"to" binding:"required"`
	Quantity string `json:"quantity" binding:"required"`
	Memo     string `json:"memo"`
}

// TransferNoticeRequest reports a transfer seen by an external bank
type TransferNoticeRequest struct {
	From     string `json:"from" binding:"required"`
	To       string `json:"to" binding:"required"`
	Quantity string `json:"quantity" binding:"required"`
	Memo     string `json:"memo"`
}

// OpenAccountRequest opens a ledger account
type OpenAccountRequest struct {
	Name string `json:"name" binding:"required"`
}

// IssueRequest mints funds into an account
type IssueRequest struct {
	Quantity string `json:"quantity" binding:"required"`
	Memo     string `json:"memo"`
}

// ListResponse paginated listing
type ListResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}
