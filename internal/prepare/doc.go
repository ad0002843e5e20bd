// Package prepare turns definition files into runnable test cases.
//
// Preparation covers discovery of definition files, YAML decoding, schema
// validation, suite expansion, instance-file resolution and rendering of the
// checker arguments. Every failure is local to the test case it concerns:
// the case is marked Invalid with a reason and the rest of the batch
// continues.
package prepare
