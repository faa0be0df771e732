package service

import (
	"reflect"
	"testing"
)

func TestParseCSVWithHeader(t *testing.T) {
	text := "URL,Name\nhttps://www.zara.com/dress,Summer Dress\nhttps://shop.com/shoes,\"Running Shoes\"\n"

	got := ParseCSV(text)
	want := []CSVRow{
		{URL: "https://www.zara.com/dress", Name: "Summer Dress"},
		{URL: "https://shop.com/shoes", Name: "Running Shoes"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV = %+v, want %+v", got, want)
	}
}

func TestParseCSVSkipsBadRows(t *testing.T) {
	text := "url,name\nhttps://a.com/1,Shirt\nbadrow\nhttps://b.com/2,"

	got := ParseCSV(text)
	want := []CSVRow{
		{URL: "https://a.com/1", Name: "Shirt"},
		{URL: "https://b.com/2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV = %+v, want %+v", got, want)
	}
}

func TestParseCSVWithoutHeader(t *testing.T) {
	text := "https://a.com/1,First\nhttps://b.com/2"

	got := ParseCSV(text)
	want := []CSVRow{
		{URL: "https://a.com/1", Name: "First"},
		{URL: "https://b.com/2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV = %+v, want %+v", got, want)
	}
}

func TestParseCSVDropsInvalidRows(t *testing.T) {
	text := "url,name\n\n  \nftp://a.com/1,Nope\nnot-a-url,Nope\n,Empty\nhttps://ok.com/1,Keep\n"

	got := ParseCSV(text)
	want := []CSVRow{{URL: "https://ok.com/1", Name: "Keep"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV = %+v, want %+v", got, want)
	}
}

func TestParseCSVAlternateHeaderLabels(t *testing.T) {
	text := "Product Name,Link\nWool Coat,https://store.com/coat"

	got := ParseCSV(text)
	want := []CSVRow{{URL: "https://store.com/coat", Name: "Wool Coat"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV = %+v, want %+v", got, want)
	}
}

func TestParseCSVEmptyInput(t *testing.T) {
	if got := ParseCSV(""); len(got) != 0 {
		t.Errorf("ParseCSV(\"\") = %+v, want empty", got)
	}
}
