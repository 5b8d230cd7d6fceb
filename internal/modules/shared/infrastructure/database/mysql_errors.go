package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ER_DUP_KEYNAME
const mysqlDuplicateKeyName = 1061

func isDuplicateKeyName(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateKeyName
}
