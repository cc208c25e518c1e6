package dto

type RegisterRequest struct {
	LoginID         string `json:"loginId" binding:"required,min=3,max=50"`
	NickName        string `json:"nickName" binding:"required,min=1,max=30"`
	Password        string `json:"password" binding:"required,min=8,max=20"`
	ProfileImageURL string `json:"profileImageUrl" binding:"omitempty,url"`
}

type RegisterResponse struct {
	UserID uint64 `json:"userId"`
}

type LoginRequest struct {
	LoginID  string `json:"loginId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type MeResponse struct {
	UserID          uint64 `json:"userId"`
	LoginID         string `json:"loginId"`
	NickName        string `json:"nickName"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}
