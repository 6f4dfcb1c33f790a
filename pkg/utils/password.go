package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// NewSalt 每个用户首次保存时生成一次
func NewSalt() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// prehash bcrypt 只吃前 72 字节；密码按字符限长，多字节字符会超，先压成 64 字节 hex
func prehash(salt, pw string) []byte {
	sum := sha256.Sum256([]byte(salt + "--" + pw))
	dst := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(dst, sum[:])
	return dst
}

// HashPassword bcrypt(hex(sha256(salt--password)))
func HashPassword(salt, pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(salt, pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(salt, pw, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), prehash(salt, pw)) == nil
}
