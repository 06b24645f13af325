// Package snapshot exports a screen buffer as an XML document and
// searches screens for fields with XPath expressions.
//
// A snapshot looks like:
//
//	<screen rows="24" cols="80" cursor="11" aid="NONE">
//	  <field address="0" row="0" col="0" protected="true" numeric="false"
//	    intensified="true" hidden="false" modified="false">USERID</field>
//	  ...
//	</screen>
//
// Field text has trailing blanks removed and the text of hidden fields
// is never written. An unformatted screen is written as a single
// unprotected field at address 0 holding the whole buffer.
package snapshot
