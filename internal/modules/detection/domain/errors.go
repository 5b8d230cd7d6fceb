package domain

import "errors"

var (
	// ErrEmptyInput 入力テキストが空（または空白のみ）
	ErrEmptyInput = errors.New("please enter some text")

	// ErrInference ベクトル化・分類器の呼び出しに失敗
	ErrInference = errors.New("inference failed")

	// ErrArticleFetch 記事本文の取得に失敗
	ErrArticleFetch = errors.New("article fetch failed")

	// ErrRecordNotFound 解析履歴が見つからない
	ErrRecordNotFound = errors.New("analysis record not found")
)
