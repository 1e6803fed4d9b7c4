package utils

import (
	"crypto/rand"
	"math/big"
)

// ไม่มีตัวที่สับสนง่าย เช่น 0, O, l, 1
const alphanumeric = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomString ใช้สร้างรหัสผ่านชั่วคราวตอน admin เพิ่มผู้ใช้
func GenerateRandomString(n int) string {
	result := make([]byte, n)
	max := big.NewInt(int64(len(alphanumeric)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			result[i] = alphanumeric[i%len(alphanumeric)]
			continue
		}
		result[i] = alphanumeric[num.Int64()]
	}
	return string(result)
}
