package main

import (
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/genfile/container"
	"github.com/arloliu/genfile/section"
)

func (a *app) newAppendCmd() *cobra.Command {
	var toGroup, as string

	cmd := &cobra.Command{
		Use:   "append <source> <group> <data set> <target>",
		Short: "Copy a dataset from one file to the end of another",
		Long: `append copies a dataset, with its parameters and payload, into the target
file. The target is extended in place; the data group is created when it
does not exist yet.`,
		Args: cobra.ExactArgs(4),
		RunE: func(_ *cobra.Command, args []string) error {
			group := args[1]
			if toGroup != "" {
				group = toGroup
			}

			set, err := a.readDataSet(args[0], args[1], args[2], as)
			if err != nil {
				return err
			}

			u, err := container.NewUpdater(args[3], a.openOptions()...)
			if err != nil {
				return err
			}
			defer u.Close()

			if err := u.AppendDataSets(group, set); err != nil {
				return err
			}

			a.logger.Info("data set appended",
				zap.String("group", group),
				zap.String("data_set", set.Header.Name),
				zap.Int("rows", set.Header.Rows))

			return u.Close()
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&toGroup, "to-group", "", "target data group, defaults to the source group")
	fl.StringVar(&as, "as", "", "name of the copied data set, defaults to the source name")

	return cmd
}

// readDataSet loads a complete dataset and clones its header under a new name.
func (a *app) readDataSet(path, group, name, rename string) (container.NewDataSet, error) {
	f, err := container.Open(path, a.openOptions()...)
	if err != nil {
		return container.NewDataSet{}, err
	}
	defer f.Close()

	v, err := f.DataSet(group, name)
	if err != nil {
		return container.NewDataSet{}, err
	}

	src := v.Header()
	if rename == "" {
		rename = src.Name
	}

	h := section.NewDataSetHeader(rename, src.Rows, slices.Clone(src.Columns)...)
	for _, p := range src.Params {
		h.AddParameter(p)
	}

	cols := make(container.Columns, len(src.Columns))
	for i := range src.Columns {
		if cols[i], err = v.GetRange(i, 0, src.Rows); err != nil {
			return container.NewDataSet{}, err
		}
	}

	return container.NewDataSet{Header: h, Columns: cols}, nil
}
