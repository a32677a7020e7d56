package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

func newDatabasesCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "databases",
		Short: "List the databases of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.connect(cmd)
			if err != nil {
				return err
			}
			names, err := cl.DatabaseNames(c.context(cmd))
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(c.out, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newCollectionsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "collections DATABASE",
		Short: "List the collections of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.connect(cmd)
			if err != nil {
				return err
			}
			names, err := cl.Database(args[0]).CollectionNames(c.context(cmd))
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(c.out, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

type findOptions struct {
	query  string
	fields string
	sort   string
	skip   int
	limit  int
}

func newFindCommand(c *cli) *cobra.Command {
	var opts findOptions
	cmd := &cobra.Command{
		Use:   "find [OPTIONS] DATABASE COLLECTION",
		Short: "Print the documents matching a query, one per line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, c, args[0], args[1], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.query, "query", "q", "", "Query document")
	flags.StringVarP(&opts.fields, "fields", "f", "", "Fields to include or exclude")
	flags.StringVarP(&opts.sort, "sort", "s", "", "Sort document")
	flags.IntVar(&opts.skip, "skip", 0, "Number of documents to skip")
	flags.IntVarP(&opts.limit, "limit", "l", 0, "Maximum number of documents")
	return cmd
}

func runFind(cmd *cobra.Command, c *cli, db, col string, opts findOptions) error {
	var (
		query    any
		findOpts = []domain.FindOption{domain.WithFindSkip(opts.skip), domain.WithFindLimit(opts.limit)}
		err      error
	)
	if opts.query != "" {
		if query, err = c.parse("query", opts.query); err != nil {
			return err
		}
	}
	if opts.fields != "" {
		fields, err := c.parse("fields", opts.fields)
		if err != nil {
			return err
		}
		findOpts = append(findOpts, domain.WithFindFields(fields))
	}
	if opts.sort != "" {
		sort, err := c.parse("sort", opts.sort)
		if err != nil {
			return err
		}
		findOpts = append(findOpts, domain.WithFindSort(sort))
	}

	cl, err := c.connect(cmd)
	if err != nil {
		return err
	}
	ctx := c.context(cmd)
	cur, err := cl.Database(db).Collection(col).Find(ctx, query, findOpts...)
	if err != nil {
		return err
	}
	defer cur.Close()
	for _, doc := range cur.All() {
		if err := c.print(doc); err != nil {
			return err
		}
	}
	return nil
}

func newCountCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "count DATABASE COLLECTION",
		Short: "Print the number of documents of a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.connect(cmd)
			if err != nil {
				return err
			}
			n, err := cl.Database(args[0]).Collection(args[1]).Count(c.context(cmd))
			if err != nil {
				return err
			}
			return c.print(n)
		},
	}
}

func newInsertCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "insert DATABASE COLLECTION JSON",
		Short: "Insert a document or a list of documents",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := c.parse("document", args[2])
			if err != nil {
				return err
			}
			cl, err := c.connect(cmd)
			if err != nil {
				return err
			}
			res, err := cl.Database(args[0]).Collection(args[1]).Insert(c.context(cmd), docs)
			if err != nil {
				return err
			}
			if res.Document != nil {
				return c.print(res.Document)
			}
			return c.print(res.N)
		},
	}
}

func newUpdateCommand(c *cli) *cobra.Command {
	var upsert, multi bool
	cmd := &cobra.Command{
		Use:   "update [OPTIONS] DATABASE COLLECTION QUERY UPDATE",
		Short: "Apply update operators to the documents matching a query",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := c.parse("query", args[2])
			if err != nil {
				return err
			}
			update, err := c.parse("update", args[3])
			if err != nil {
				return err
			}
			cl, err := c.connect(cmd)
			if err != nil {
				return err
			}
			n, err := cl.Database(args[0]).Collection(args[1]).Update(c.context(cmd), query, update,
				domain.WithUpsert(upsert),
				domain.WithUpdateMulti(multi),
			)
			if err != nil {
				return err
			}
			return c.print(n)
		},
	}
	cmd.Flags().BoolVar(&upsert, "upsert", false, "Insert a document when nothing matches")
	cmd.Flags().BoolVar(&multi, "multi", false, "Update every matching document")
	return cmd
}

func newRemoveCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove DATABASE COLLECTION [QUERY|ID]",
		Short: "Remove a document by _id or the documents matching a query",
		Long: "Remove a document by _id or the documents matching a query. An argument\n" +
			"that is not a JSON object is taken as an _id. Without one, every document\n" +
			"is removed.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var spec any
			if len(args) == 3 {
				spec = args[2]
				if strings.HasPrefix(strings.TrimSpace(args[2]), "{") {
					v, err := c.parse("query", args[2])
					if err != nil {
						return err
					}
					spec = v
				}
			}
			cl, err := c.connect(cmd)
			if err != nil {
				return err
			}
			n, err := cl.Database(args[0]).Collection(args[1]).Remove(c.context(cmd), spec)
			if err != nil {
				return err
			}
			return c.print(n)
		},
	}
}

func newCommandCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "command DATABASE JSON",
		Short: "Run a database command",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := c.parse("command", args[1])
			if err != nil {
				return err
			}
			cl, err := c.connect(cmd)
			if err != nil {
				return err
			}
			res, err := cl.Database(args[0]).RunCommand(c.context(cmd), command)
			if err != nil {
				return err
			}
			return c.print(res)
		},
	}
}
