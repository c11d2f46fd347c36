package api

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"VectorConsole/backend/go/internal/folderconfig"
	"VectorConsole/backend/go/pkg/util"
)

// KeyVerifier 校验 API Key。配置中只保存 bcrypt 哈希；
// 校验结果按 key 的 sha256 摘要缓存，避免每个请求都跑一次 bcrypt。
type KeyVerifier struct {
	hashes [][]byte
	cache  *util.LRUCache[string, bool]
}

// NewKeyVerifier 创建校验器。ttl 为0时缓存不过期。
func NewKeyVerifier(hashes []string, ttl time.Duration, size int) (*KeyVerifier, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := util.NewLRU[string, bool](util.CacheConfig{Capacity: size, TTL: ttl})
	if err != nil {
		return nil, err
	}
	v := &KeyVerifier{cache: cache}
	for _, h := range hashes {
		if h = strings.TrimSpace(h); h != "" {
			v.hashes = append(v.hashes, []byte(h))
		}
	}
	return v, nil
}

// Verify 判断 key 是否匹配任意一个配置的哈希。
func (v *KeyVerifier) Verify(key string) bool {
	if folderconfig.ValidateAPIKey(key) != nil {
		return false
	}
	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:])
	if ok, hit := v.cache.Get(digest); hit {
		return ok
	}

	ok := false
	for _, h := range v.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			ok = true
			break
		}
	}
	v.cache.Put(digest, ok)
	return ok
}

// HashAPIKey 生成可以写入 auth.apiKeyHashes 的哈希。
func HashAPIKey(key string) (string, error) {
	if err := folderconfig.ValidateAPIKey(key); err != nil {
		return "", err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// AuthMiddleware 要求 "Authorization: Bearer <api key>"。
func AuthMiddleware(v *KeyVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header", "kind": "unauthorized"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed Authorization header", "kind": "unauthorized"})
			return
		}

		if !v.Verify(strings.TrimSpace(parts[1])) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key", "kind": "unauthorized"})
			return
		}
		c.Next()
	}
}
