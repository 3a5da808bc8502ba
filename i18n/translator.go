package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "subject" or "type"); placeholders are written as {key}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"duplicate_type":    "type name already registered",
		"unknown_type":      "unknown type",
		"not_a_sum_type":    "type is not a closed sum",
		"duplicate_variant": "variant listed twice",
		"empty_sum":         "closed sum without variants",
		"cyclic_sum":        "closed sum permits itself",
		"arity_mismatch":    "wrong number of fields",
		"not_a_subtype":     "type is not permitted here",
		"duplicate_binding": "binding name used twice",
		"invalid_pattern":   "invalid pattern",
		"parse_error":       "parse error",
		"invalid_value":     "value does not fit its type",
		"duplicate_key":     "object key appears twice",
		"non_exhaustive":    "match on {subject} is not exhaustive",
		"redundant_pattern": "clause is unreachable",
	},
	"ja": {
		"duplicate_type":    "型名が既に登録されています",
		"unknown_type":      "未知の型です",
		"not_a_sum_type":    "閉じた直和型ではありません",
		"duplicate_variant": "バリアントが重複しています",
		"empty_sum":         "バリアントのない直和型です",
		"cyclic_sum":        "直和型が自分自身を含んでいます",
		"arity_mismatch":    "フィールド数が一致しません",
		"not_a_subtype":     "ここでは許可されない型です",
		"duplicate_binding": "束縛名が重複しています",
		"invalid_pattern":   "不正なパターンです",
		"parse_error":       "解析エラー",
		"invalid_value":     "値が型に適合しません",
		"duplicate_key":     "オブジェクトのキーが重複しています",
		"non_exhaustive":    "{subject} に対するマッチが網羅的ではありません",
		"redundant_pattern": "到達不能な節です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dict[t.lang][code]
	if !ok {
		return code
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
