package request

type ProofRequest struct {
	ProofURL string `json:"proofUrl" binding:"required,max=2048"`
}
