// Package dataset reads the tabular files reconciled by the service.
//
// CSV and XLSX inputs are supported. The first row of a file is its header row
// and every following row becomes a reconcile.Row keyed by header name. For
// workbooks only the first sheet is read.
//
//	table, err := dataset.ReadNamed(file, "payments.xlsx")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(table.Headers, len(table.Rows))
package dataset
