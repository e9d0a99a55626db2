package service

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"library-ledger/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL = time.Hour
	issuer         = "library-ledger"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	BorrowerID int        `json:"borrower_id"`
	Role       model.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthenticateBorrower 比對密碼，成功回傳借閱者；帳號不存在與密碼錯誤回傳同一個錯誤
func AuthenticateBorrower(b *model.Borrower, password string) (*model.Borrower, error) {
	if b == nil || b.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := ComparePassword(b.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return b, nil
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return []byte(secret), nil
}

// IssueAccessToken 依據借閱者資訊與 TTL 產生 JWT
func IssueAccessToken(b model.Borrower, ttl time.Duration) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}

	now := timeNow()
	claims := CustomClaims{
		BorrowerID: b.ID,
		Role:       b.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.Itoa(b.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(timeNow))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if !claims.Role.Valid() || claims.BorrowerID <= 0 {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
