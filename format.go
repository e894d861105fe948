// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// formatFunc is a total predicate over a string value: unparseable
// input means "not this format", never an error.
type formatFunc func(string) bool

// formats is the fixed table of built-in formats, bound into plans at
// compile time. Formats that only annotate non-string data in OpenAPI
// schemas (int32, byte, ...) are accepted as always valid.
var formats = map[string]formatFunc{
	"date":                  isDate,
	"time":                  isTime,
	"date-time":             isDateTime,
	"duration":              isDuration,
	"email":                 emailRe.MatchString,
	"hostname":              isHostname,
	"ipv4":                  isIPv4,
	"ipv6":                  isIPv6,
	"uri":                   isURI,
	"uri-reference":         isURIReference,
	"uri-template":          uriTemplateRe.MatchString,
	"url":                   isURL,
	"uuid":                  isUUID,
	"regex":                 isRegex,
	"json-pointer":          jsonPointerRe.MatchString,
	"relative-json-pointer": relativeJSONPointerRe.MatchString,
	"int32":                 alwaysValid,
	"int64":                 alwaysValid,
	"float":                 alwaysValid,
	"double":                alwaysValid,
	"password":              alwaysValid,
	"binary":                alwaysValid,
	"byte":                  alwaysValid,
}

func alwaysValid(string) bool { return true }

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

	uriTemplateRe = regexp.MustCompile(`(?i)^(?:[^\x00-\x20"'<>%\\^` + "`" + `{|}]|%[0-9a-f]{2}|\{[+#./;?&=,!@|]?(?:[a-z0-9_]|%[0-9a-f]{2})+(?::[1-9][0-9]{0,3}|\*)?(?:,(?:[a-z0-9_]|%[0-9a-f]{2})+(?::[1-9][0-9]{0,3}|\*)?)*\})*$`)

	jsonPointerRe         = regexp.MustCompile(`^(?:/(?:[^~/]|~0|~1)*)*$`)
	relativeJSONPointerRe = regexp.MustCompile(`^(?:0|[1-9][0-9]*)(?:#|(?:/(?:[^~/]|~0|~1)*)*)$`)

	timeRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})(?:\.\d+)?(?:[zZ]|([+-])(\d{2}):(\d{2}))$`)
	dateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

func isDate(s string) bool {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysInMonth(year, month)
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	}
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 29
	}
	return 28
}

func isTime(s string) bool {
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	hour, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	if hour > 23 || min > 59 || sec > 60 {
		return false
	}
	if m[4] != "" {
		offH, _ := strconv.Atoi(m[5])
		offM, _ := strconv.Atoi(m[6])
		if offH > 23 || offM > 59 {
			return false
		}
	}
	return true
}

func isDateTime(s string) bool {
	i := strings.IndexAny(s, "tT")
	if i < 0 {
		return false
	}
	return isDate(s[:i]) && isTime(s[i+1:])
}

var durationRe = regexp.MustCompile(`^P(?:\d+W|(?:\d+Y)?(?:\d+M)?(?:\d+D)?(?:T(?:\d+H)?(?:\d+M)?(?:\d+(?:\.\d+)?S)?)?)$`)

func isDuration(s string) bool {
	if s == "P" || strings.HasSuffix(s, "T") {
		return false
	}
	return durationRe.MatchString(s)
}

func isHostname(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '-') {
				return false
			}
		}
	}
	return true
}

func isIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && strings.Count(s, ".") == 3 && !strings.Contains(s, ":")
}

func isIPv6(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && strings.Contains(s, ":")
}

func isURI(s string) bool {
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme != ""
}

func isURIReference(s string) bool {
	if strings.ContainsAny(s, " \t\r\n\\") {
		return false
	}
	_, err := url.Parse(s)
	return err == nil
}

func isURL(s string) bool {
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func isUUID(s string) bool {
	if strings.HasPrefix(strings.ToLower(s), "urn:uuid:") {
		s = s[len("urn:uuid:"):]
	}
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func isRegex(s string) bool {
	_, err := regexp.Compile(s)
	return err == nil
}
