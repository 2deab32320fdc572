package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// GUID 128 位标识，落库为 16 字节 blob
// 字节序与 .NET Guid.ToByteArray 一致：前三段小端，后 8 字节原样
type GUID uuid.UUID

// NilGUID 零值标识
var NilGUID GUID

// NewGUID 生成随机标识
func NewGUID() GUID {
	return GUID(uuid.New())
}

// ParseGUID 解析标准字符串形式（xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx）
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilGUID, fmt.Errorf("无效的 GUID %q: %w", s, err)
	}
	return GUID(u), nil
}

// MustParseGUID 解析失败直接 panic，仅用于常量
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// IsZero 是否为零值
func (g GUID) IsZero() bool {
	return g == NilGUID
}

func (g GUID) String() string {
	return uuid.UUID(g).String()
}

// Bytes 返回落库字节（混合字节序）
func (g GUID) Bytes() []byte {
	b := make([]byte, 16)
	b[0], b[1], b[2], b[3] = g[3], g[2], g[1], g[0]
	b[4], b[5] = g[5], g[4]
	b[6], b[7] = g[7], g[6]
	copy(b[8:], g[8:])
	return b
}

// GUIDFromBytes 从落库字节还原
func GUIDFromBytes(b []byte) (GUID, error) {
	var g GUID
	if len(b) != 16 {
		return g, fmt.Errorf("GUID 长度错误: %d", len(b))
	}
	g[0], g[1], g[2], g[3] = b[3], b[2], b[1], b[0]
	g[4], g[5] = b[5], b[4]
	g[6], g[7] = b[7], b[6]
	copy(g[8:], b[8:])
	return g, nil
}

// GormDataType 字段类型固定为 blob
func (GUID) GormDataType() string {
	return "bytes"
}

// Value 实现 driver.Valuer
func (g GUID) Value() (driver.Value, error) {
	return g.Bytes(), nil
}

// Scan 实现 sql.Scanner
func (g *GUID) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		parsed, err := GUIDFromBytes(v)
		if err != nil {
			return err
		}
		*g = parsed
		return nil
	case nil:
		*g = NilGUID
		return nil
	default:
		return fmt.Errorf("无法将 %T 转换为 GUID", src)
	}
}

// MarshalText 序列化为标准字符串
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText 从标准字符串解析
func (g *GUID) UnmarshalText(b []byte) error {
	parsed, err := ParseGUID(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// NullGUID 可空标识，用于 SplitId 等可选外键
type NullGUID struct {
	GUID  GUID
	Valid bool
}

// GormDataType 字段类型固定为 blob
func (NullGUID) GormDataType() string {
	return "bytes"
}

// Value 实现 driver.Valuer
func (n NullGUID) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.GUID.Value()
}

// Scan 实现 sql.Scanner
func (n *NullGUID) Scan(src interface{}) error {
	if src == nil {
		n.GUID, n.Valid = NilGUID, false
		return nil
	}
	if err := n.GUID.Scan(src); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// MarshalJSON 空值输出 null
func (n NullGUID) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + n.GUID.String() + `"`), nil
}

// UnmarshalJSON 接受 null 或标准字符串
func (n *NullGUID) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		n.GUID, n.Valid = NilGUID, false
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("无效的 GUID JSON: %s", s)
	}
	if err := n.GUID.UnmarshalText([]byte(s[1 : len(s)-1])); err != nil {
		return err
	}
	n.Valid = true
	return nil
}
