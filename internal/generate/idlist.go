package generate

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseIDList разбирает список ID, разделенных запятыми или пробелами.
// Нули и повторы отбрасываются, порядок сохраняется.
func ParseIDList(value string) ([]int64, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	ids := make([]int64, 0, len(fields))
	seen := make(map[int64]struct{}, len(fields))

	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil || id < 0 {
			return nil, usageErrorf("некорректный ID %q", f)
		}
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, nil
}

// requireIDList разбирает обязательный список ID аффилиатов
func requireIDList(args Args, key string) ([]int64, error) {
	ids, err := ParseIDList(args.String(key, ""))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, usageErrorf("необходимо указать хотя бы один ID в параметре --%s", key)
	}
	return ids, nil
}
