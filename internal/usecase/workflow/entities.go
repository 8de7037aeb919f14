package workflow

type ApproveInput struct {
	ApproverID   string `json:"approverId"`
	ApproverName string `json:"approverName"`
	Comments     string `json:"comments,omitempty"`
	Signature    string `json:"signature,omitempty"`
}

type RejectInput struct {
	ApproverID   string `json:"approverId"`
	ApproverName string `json:"approverName"`
	Reason       string `json:"reason"`
	Comments     string `json:"comments,omitempty"`
}

type CommentInput struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Text     string `json:"text"`
}
