package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/genfile/container"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
	"github.com/arloliu/genfile/section"
)

func (a *app) newSetParamCmd() *cobra.Command {
	var group, set string

	cmd := &cobra.Command{
		Use:   "set-param <file> <name> <value>",
		Short: "Overwrite the value of an existing parameter in place",
		Long: `set-param replaces the value of a file parameter, or of a dataset parameter
when --group and --data-set are given. The value is parsed according to the
stored parameter type and must fit the space reserved for it.`,
		Args: cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			if (group == "") != (set == "") {
				return fmt.Errorf("--group and --data-set must be given together")
			}

			return a.setParam(args[0], args[1], args[2], group, set)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&group, "group", "", "data group of the data set parameter")
	fl.StringVar(&set, "data-set", "", "data set of the parameter")

	return cmd
}

func (a *app) setParam(path, name, raw, group, set string) error {
	u, err := container.NewUpdater(path, a.openOptions()...)
	if err != nil {
		return err
	}
	defer u.Close()

	h, err := container.ReadHeaderFile(path)
	if err != nil {
		return err
	}

	var current section.Parameter
	var ok bool
	if set == "" {
		current, ok = h.Generic.FindParameter(name)
	} else {
		ds, ferr := h.FindDataSet(group, set)
		if ferr != nil {
			return ferr
		}
		current, ok = ds.FindParameter(name)
	}
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrParameterNotFound, name)
	}

	value, err := parseValue(raw, current.Type)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", name, err)
	}
	p := section.Parameter{Name: name, Value: value, Type: current.Type}

	if set == "" {
		err = u.UpdateFileParameter(p)
	} else {
		err = u.UpdateDataSetParameter(group, set, p)
	}
	if err != nil {
		return err
	}

	a.logger.Info("parameter updated", zap.String("name", name), zap.Stringer("type", current.Type))

	return u.Close()
}

// parseValue converts text to the Go type stored for t.
func parseValue(s string, t format.ColumnType) (any, error) {
	switch t {
	case format.TypeInt8:
		v, err := strconv.ParseInt(s, 10, 8)
		return int8(v), err
	case format.TypeUint8:
		v, err := strconv.ParseUint(s, 10, 8)
		return uint8(v), err
	case format.TypeInt16:
		v, err := strconv.ParseInt(s, 10, 16)
		return int16(v), err
	case format.TypeUint16:
		v, err := strconv.ParseUint(s, 10, 16)
		return uint16(v), err
	case format.TypeInt32:
		v, err := strconv.ParseInt(s, 10, 32)
		return int32(v), err
	case format.TypeUint32:
		v, err := strconv.ParseUint(s, 10, 32)
		return uint32(v), err
	case format.TypeFloat32:
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), err
	case format.TypeASCII, format.TypeUnicode:
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, t)
	}
}
