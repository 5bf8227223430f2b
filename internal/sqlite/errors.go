package sqlite

import "strings"

// modernc.org/sqlite reports constraint failures only through the message.
func constraintFailed(err error, kind string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), kind+" constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return constraintFailed(err, "FOREIGN KEY")
}

func isUniqueViolation(err error) bool {
	return constraintFailed(err, "UNIQUE")
}
