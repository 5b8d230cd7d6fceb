// Package web 画面テンプレートと静的ファイル
package web

import "embed"

// FS テンプレートと静的ファイル
//
//go:embed templates static
var FS embed.FS
