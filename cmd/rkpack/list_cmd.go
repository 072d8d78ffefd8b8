package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/naari3/rkpack/internal/dbaccess"
	"github.com/naari3/rkpack/internal/ui"
	"github.com/spf13/cobra"
)

func newListTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-tables",
		Short: "Dump every Library table's schema and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDBFromFlags(true)
			if err != nil {
				return err
			}
			defer db.Close()
			return runListTables(cmd.Context(), db)
		},
	}
}

func newListPlaylistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-playlists",
		Short: "List every live playlist and its track count",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDBFromFlags(true)
			if err != nil {
				return err
			}
			defer db.Close()
			return runListPlaylists(cmd.Context(), db)
		},
	}
}

func runListTables(ctx context.Context, db dbaccess.Queryer) error {
	tableRows, err := dbaccess.QueryRows(ctx, db,
		"SELECT name, sql FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return err
	}
	indexRows, err := dbaccess.QueryRows(ctx, db,
		"SELECT tbl_name, name, sql FROM sqlite_master WHERE type='index' AND sql IS NOT NULL ORDER BY tbl_name, name")
	if err != nil {
		return err
	}

	for i, t := range tableRows {
		if i > 0 {
			fmt.Println()
		}
		name, _ := t["name"].AsString()
		sql, _ := t["sql"].AsString()
		fmt.Printf("-- %s\n", name)
		fmt.Printf("%s;\n", formatCreateTable(sql))

		for _, idx := range indexRows {
			tbl, _ := idx["tbl_name"].AsString()
			if tbl != name {
				continue
			}
			idxName, _ := idx["name"].AsString()
			idxSQL, _ := idx["sql"].AsString()
			fmt.Printf("-- index: %s\n", idxName)
			fmt.Printf("%s;\n", idxSQL)
		}
	}

	fmt.Printf("\n-- %d tables, %d indexes\n", len(tableRows), len(indexRows))
	return nil
}

// formatCreateTable pretty-prints a CREATE TABLE statement with one column
// per line, splitting on top-level commas (ignoring commas inside
// backtick-quoted identifiers).
func formatCreateTable(sql string) string {
	parenStart := strings.Index(sql, "(")
	parenEnd := strings.LastIndex(sql, ")")
	if parenStart < 0 || parenEnd < 0 || parenEnd < parenStart {
		return sql
	}

	prefix := sql[:parenStart+1]
	inner := sql[parenStart+1 : parenEnd]

	var columns []string
	var current strings.Builder
	inQuote := false
	depth := 0
	for _, ch := range inner {
		switch ch {
		case '`':
			inQuote = !inQuote
			current.WriteRune(ch)
		case '(', ')':
			if !inQuote {
				if ch == '(' {
					depth++
				} else {
					depth--
				}
			}
			current.WriteRune(ch)
		case ',':
			if inQuote || depth > 0 {
				current.WriteRune(ch)
				continue
			}
			columns = append(columns, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	if last := strings.TrimSpace(current.String()); last != "" {
		columns = append(columns, last)
	}

	var out strings.Builder
	out.WriteString(prefix)
	out.WriteString("\n")
	for i, col := range columns {
		out.WriteString("  ")
		out.WriteString(col)
		if i < len(columns)-1 {
			out.WriteString(",")
		}
		out.WriteString("\n")
	}
	out.WriteString(")")
	return out.String()
}

func runListPlaylists(ctx context.Context, db dbaccess.Queryer) error {
	rows, err := dbaccess.QueryRows(ctx, db,
		`SELECT p.ID, p.Name, p.Attribute,
		   (SELECT COUNT(*) FROM djmdSongPlaylist sp WHERE sp.PlaylistID = p.ID AND sp.rb_local_deleted = 0) as TrackCount
		 FROM djmdPlaylist p WHERE p.rb_local_deleted = 0 ORDER BY p.Seq`)
	if err != nil {
		return err
	}

	table := ui.NewTable("ID", "KIND", "TRACKS", "NAME")
	for _, p := range rows {
		id, _ := p["ID"].AsString()
		name, ok := p["Name"].AsString()
		if !ok || name == "" {
			name = "(no name)"
		}
		attr, _ := p["Attribute"].AsInt64()
		count, _ := p["TrackCount"].AsInt64()
		kind := "list"
		if attr == 0 {
			kind = "folder"
		}
		table.AddRow(id, kind, fmt.Sprintf("%d", count), name)
	}
	table.Render()
	fmt.Printf("\n%d playlists total\n", len(rows))
	return nil
}
