package sqlbuilder

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/apperrors"
	"github.com/oraviz-inc/oraviz-engine/pkg/logging"
	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

// lengthTypes are the type families that accept a length specifier.
var lengthTypes = map[string]bool{
	"VARCHAR2": true, "CHAR": true, "NVARCHAR2": true, "NCHAR": true,
}

// ColumnDef describes one column of a CREATE TABLE statement.
// Name and Type are required; Length applies to character types,
// Precision/Scale to NUMBER. Zero means unset.
type ColumnDef struct {
	Name      string
	Type      string
	Length    int
	Precision int
	Scale     int
	NotNull   bool
	Default   string
}

// CreateUser builds a CREATE USER statement. Tablespace, temp tablespace and
// profile clauses are appended only when present. The quota clause falls back
// to USERS when no tablespace is given.
func (b *Builder) CreateUser(username, password, tablespace, tempTablespace, profile string) (string, error) {
	if err := validateUsername(username); err != nil {
		return "", err
	}

	user, err := escapeIdentifier(username)
	if err != nil {
		return "", err
	}
	pass, err := escapePassword(password)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("CREATE USER ")
	sb.WriteString(user)
	sb.WriteString(" IDENTIFIED BY ")
	sb.WriteString(pass)

	quotaTarget := "USERS"
	if strings.TrimSpace(tablespace) != "" {
		ts, err := escapeIdentifier(tablespace)
		if err != nil {
			return "", err
		}
		sb.WriteString(" DEFAULT TABLESPACE ")
		sb.WriteString(ts)
		quotaTarget = ts
	}

	if strings.TrimSpace(tempTablespace) != "" {
		ts, err := escapeIdentifier(tempTablespace)
		if err != nil {
			return "", err
		}
		sb.WriteString(" TEMPORARY TABLESPACE ")
		sb.WriteString(ts)
	}

	if strings.TrimSpace(profile) != "" {
		p, err := escapeIdentifier(profile)
		if err != nil {
			return "", err
		}
		sb.WriteString(" PROFILE ")
		sb.WriteString(p)
	}

	sb.WriteString(" QUOTA UNLIMITED ON ")
	sb.WriteString(quotaTarget)

	b.logger.Debug("generated CREATE USER SQL",
		zap.String("sql", logging.SanitizeSQL(sb.String())))
	return sb.String(), nil
}

// CreateDatabase builds a traditional CREATE DATABASE statement with redo
// log, character set, datafile and tablespace clauses.
func (b *Builder) CreateDatabase(dbName, adminUser, adminPassword string) (string, error) {
	if err := validateDatabaseName(dbName); err != nil {
		return "", err
	}

	name, err := escapeIdentifier(dbName)
	if err != nil {
		return "", err
	}

	admin := "SYS"
	if strings.TrimSpace(adminUser) != "" {
		if admin, err = escapeIdentifier(adminUser); err != nil {
			return "", err
		}
	}
	if adminPassword == "" {
		adminPassword = "password"
	}
	pass, err := escapePassword(adminPassword)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE DATABASE %s\n", name)
	fmt.Fprintf(&sb, "  USER %s IDENTIFIED BY %s\n", admin, pass)
	fmt.Fprintf(&sb, "  LOGFILE GROUP 1 ('%s_redo01.log') SIZE 100M,\n", dbName)
	fmt.Fprintf(&sb, "          GROUP 2 ('%s_redo02.log') SIZE 100M\n", dbName)
	sb.WriteString("  CHARACTER SET AL32UTF8\n")
	sb.WriteString("  NATIONAL CHARACTER SET AL16UTF16\n")
	fmt.Fprintf(&sb, "  DATAFILE '%s_system01.dbf' SIZE 500M AUTOEXTEND ON\n", dbName)
	fmt.Fprintf(&sb, "  SYSAUX DATAFILE '%s_sysaux01.dbf' SIZE 500M AUTOEXTEND ON\n", dbName)
	sb.WriteString("  DEFAULT TABLESPACE users\n")
	fmt.Fprintf(&sb, "    DATAFILE '%s_users01.dbf' SIZE 500M AUTOEXTEND ON\n", dbName)
	sb.WriteString("  DEFAULT TEMPORARY TABLESPACE temp\n")
	fmt.Fprintf(&sb, "    TEMPFILE '%s_temp01.dbf' SIZE 100M AUTOEXTEND ON\n", dbName)
	sb.WriteString("  UNDO TABLESPACE undotbs1\n")
	fmt.Fprintf(&sb, "    DATAFILE '%s_undo01.dbf' SIZE 200M AUTOEXTEND ON", dbName)

	b.logger.Debug("generated CREATE DATABASE SQL", zap.String("database", dbName))
	return sb.String(), nil
}

// CreatePDB builds a CREATE PLUGGABLE DATABASE statement (12c+). The admin
// user clause is appended only when an admin user is given.
func (b *Builder) CreatePDB(pdbName, adminUser, adminPassword string) (string, error) {
	if err := validateDatabaseName(pdbName); err != nil {
		return "", err
	}

	name, err := escapeIdentifier(pdbName)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE PLUGGABLE DATABASE %s\n", name)

	if strings.TrimSpace(adminUser) != "" {
		admin, err := escapeIdentifier(adminUser)
		if err != nil {
			return "", err
		}
		if adminPassword == "" {
			adminPassword = "password"
		}
		pass, err := escapePassword(adminPassword)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "  ADMIN USER %s IDENTIFIED BY %s\n", admin, pass)
	}

	sb.WriteString("  STORAGE (MAXSIZE 2G)\n")
	sb.WriteString("  DEFAULT TABLESPACE users\n")
	sb.WriteString("    DATAFILE SIZE 100M AUTOEXTEND ON\n")
	fmt.Fprintf(&sb, "  FILE_NAME_CONVERT = ('pdbseed', '%s')", strings.ToLower(pdbName))

	b.logger.Debug("generated CREATE PLUGGABLE DATABASE SQL", zap.String("pdb", pdbName))
	return sb.String(), nil
}

// DropDatabase builds a DROP DATABASE statement. Dropping a system database
// is always an error, regardless of the force flag.
func (b *Builder) DropDatabase(dbName string, force bool) (string, error) {
	if err := validateDatabaseName(dbName); err != nil {
		return "", err
	}
	if IsSystemDatabase(dbName) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrProtectedDatabase, dbName)
	}

	name, err := escapeIdentifier(dbName)
	if err != nil {
		return "", err
	}

	sql := "DROP DATABASE " + name
	if force {
		sql += " INCLUDING DATAFILES"
	}

	b.logger.Debug("generated DROP DATABASE SQL", zap.String("database", dbName))
	return sql, nil
}

// DropPDB builds a DROP PLUGGABLE DATABASE statement. System names are
// rejected the same way as DropDatabase.
func (b *Builder) DropPDB(pdbName string, force bool) (string, error) {
	if err := validateDatabaseName(pdbName); err != nil {
		return "", err
	}
	if IsSystemDatabase(pdbName) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrProtectedDatabase, pdbName)
	}

	name, err := escapeIdentifier(pdbName)
	if err != nil {
		return "", err
	}

	sql := "DROP PLUGGABLE DATABASE " + name
	if force {
		sql += " INCLUDING DATAFILES"
	}

	b.logger.Debug("generated DROP PLUGGABLE DATABASE SQL", zap.String("pdb", pdbName))
	return sql, nil
}

// CreateTable builds a CREATE TABLE statement with optional primary key
// constraint and tablespace clause. Column metadata from schema discovery can
// be converted into defs by the caller.
func (b *Builder) CreateTable(table string, columns []ColumnDef, primaryKey []string, tablespace string) (string, error) {
	if err := validateTableName(table); err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("%w: table must have at least one column", apperrors.ErrInvalidIdentifier)
	}

	name, err := escapeIdentifier(table)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %s (\n", name)

	for i, col := range columns {
		def, err := columnDefinition(col)
		if err != nil {
			return "", err
		}
		sb.WriteString("  ")
		sb.WriteString(def)
		if i < len(columns)-1 || len(primaryKey) > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}

	if len(primaryKey) > 0 {
		constraint, err := escapeIdentifier(table + "_pk")
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "  CONSTRAINT %s PRIMARY KEY (", constraint)
		for i, pk := range primaryKey {
			col, err := escapeIdentifier(pk)
			if err != nil {
				return "", err
			}
			sb.WriteString(col)
			if i < len(primaryKey)-1 {
				sb.WriteString(", ")
			}
		}
		sb.WriteString(")\n")
	}

	sb.WriteString(")")

	if strings.TrimSpace(tablespace) != "" {
		ts, err := escapeIdentifier(tablespace)
		if err != nil {
			return "", err
		}
		sb.WriteString("\nTABLESPACE ")
		sb.WriteString(ts)
	}

	b.logger.Debug("generated CREATE TABLE SQL", zap.String("table", table))
	return sb.String(), nil
}

// ColumnDefsFromSchema converts discovered column metadata into CREATE TABLE
// column defs, carrying over declared type, length and nullability.
func ColumnDefsFromSchema(columns []models.ColumnInfo) []ColumnDef {
	defs := make([]ColumnDef, len(columns))
	for i, col := range columns {
		def := ColumnDef{
			Name:    col.Name,
			Type:    col.DataType,
			NotNull: !col.Nullable,
		}
		if lengthTypes[strings.ToUpper(col.DataType)] {
			def.Length = col.Length
		}
		defs[i] = def
	}
	return defs
}

func columnDefinition(col ColumnDef) (string, error) {
	if strings.TrimSpace(col.Name) == "" {
		return "", fmt.Errorf("%w: column name is required", apperrors.ErrInvalidIdentifier)
	}
	if strings.TrimSpace(col.Type) == "" {
		return "", fmt.Errorf("%w: column type is required for column %s", apperrors.ErrInvalidIdentifier, col.Name)
	}

	name, err := escapeIdentifier(col.Name)
	if err != nil {
		return "", err
	}

	colType := strings.ToUpper(col.Type)
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(" ")
	sb.WriteString(colType)

	if lengthTypes[colType] && col.Length > 0 {
		fmt.Fprintf(&sb, "(%d)", col.Length)
	} else if colType == "NUMBER" && col.Precision > 0 {
		fmt.Fprintf(&sb, "(%d", col.Precision)
		if col.Scale > 0 {
			fmt.Fprintf(&sb, ",%d", col.Scale)
		}
		sb.WriteString(")")
	}

	if col.Default != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(col.Default)
	}

	if col.NotNull {
		sb.WriteString(" NOT NULL")
	}

	return sb.String(), nil
}

// CreateProfile builds a CREATE PROFILE statement. With no parameters a
// default unlimited-resource profile is emitted. Parameters are sorted by
// name so output is deterministic.
func (b *Builder) CreateProfile(profileName string, parameters map[string]string) (string, error) {
	name, err := escapeIdentifier(profileName)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE PROFILE %s LIMIT", name)

	if len(parameters) > 0 {
		for _, key := range sortedKeys(parameters) {
			fmt.Fprintf(&sb, "\n  %s %s", strings.ToUpper(key), parameters[key])
		}
	} else {
		sb.WriteString("\n  SESSIONS_PER_USER UNLIMITED")
		sb.WriteString("\n  CPU_PER_SESSION UNLIMITED")
		sb.WriteString("\n  CPU_PER_CALL UNLIMITED")
		sb.WriteString("\n  CONNECT_TIME UNLIMITED")
		sb.WriteString("\n  IDLE_TIME UNLIMITED")
		sb.WriteString("\n  LOGICAL_READS_PER_SESSION UNLIMITED")
		sb.WriteString("\n  LOGICAL_READS_PER_CALL UNLIMITED")
	}

	b.logger.Debug("generated CREATE PROFILE SQL", zap.String("profile", profileName))
	return sb.String(), nil
}

// AlterProfile builds an ALTER PROFILE statement from the given parameters,
// sorted by name.
func (b *Builder) AlterProfile(profileName string, parameters map[string]string) (string, error) {
	name, err := escapeIdentifier(profileName)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ALTER PROFILE %s LIMIT", name)
	for _, key := range sortedKeys(parameters) {
		fmt.Fprintf(&sb, "\n  %s %s", strings.ToUpper(key), parameters[key])
	}

	b.logger.Debug("generated ALTER PROFILE SQL", zap.String("profile", profileName))
	return sb.String(), nil
}

// RmanBackupScript builds an RMAN backup script. Backup types other than
// "incremental" fall back to a full database backup; the format clause is
// appended only when a location is given.
func (b *Builder) RmanBackupScript(backupType, backupLocation string) string {
	var sb strings.Builder
	sb.WriteString("RUN {\n")

	if strings.EqualFold(backupType, "incremental") {
		sb.WriteString("  BACKUP INCREMENTAL LEVEL 1 DATABASE")
	} else {
		sb.WriteString("  BACKUP DATABASE")
	}

	if strings.TrimSpace(backupLocation) != "" {
		fmt.Fprintf(&sb, " FORMAT '%s/backup_%%d_%%T_%%s_%%p.bkp'", backupLocation)
	}

	sb.WriteString(";\n  SQL 'ALTER SYSTEM ARCHIVE LOG CURRENT';\n}")

	b.logger.Debug("generated RMAN backup script", zap.String("type", backupType))
	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
