// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package sec

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GrantClaims is the payload embedded inside a downstream grant token.
//
// # Why a signed token?
//
// A successful gate pass permits a follow-up action performed by a separate
// collaborator (the file storage service streaming decrypted bytes, the chat
// service admitting the caller to a room). Embedding the caller and resource
// in a short-lived RS256 token lets those collaborators verify the grant
// WITHOUT calling back into this service.
type GrantClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the token payload small.
	ResourceID   string `json:"rid"`
	ResourceKind string `json:"rkd"`
}

// TokenService handles generation and verification of grant tokens using RS256.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService creates a new TokenService.
// It reads RSA keys from the provided filesystem paths.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
	}, nil
}

// GenerateGrantToken creates a signed token attesting that callerID has
// passed the verification gate for the given resource.
func (service *TokenService) GenerateGrantToken(callerID, resourceID, resourceKind string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := GrantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   callerID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		ResourceID:   resourceID,
		ResourceKind: resourceKind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign grant token: %w", err)
	}

	return signedToken, nil
}

// VerifyGrantToken checks the signature and validity of a grant token string.
func (service *TokenService) VerifyGrantToken(tokenString string) (*GrantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GrantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid grant token: %w", err)
	}

	claims, ok := token.Claims.(*GrantClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid grant token claims")
	}

	return claims, nil
}
